// Package session owns the client's authentication state: whether a user is
// signed in, the current bearer credential, and the label shown in the UI.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/m-dhieu/NYC-Train-Mobility-App/src/api"
)

// Labels shown next to the login controls. The label always reflects whether
// a credential is present.
const (
	labelSignedOut = "Not signed in"
	labelGeneric   = "Signed in"
)

// Authenticator acquires a credential from the remote service. Satisfied by
// *api.Client.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (api.Token, error)
}

// Manager is a two-state machine: Unauthenticated (initial) and
// Authenticated(label). Orchestrated reads call Token from their own
// goroutines while login/logout run on the UI thread, hence the lock.
type Manager struct {
	auth  Authenticator
	store Store
	log   zerolog.Logger

	mu      sync.RWMutex
	token   string
	label   string
	lastErr string
}

// NewManager returns an Unauthenticated manager.
func NewManager(auth Authenticator, store Store, log zerolog.Logger) *Manager {
	return &Manager{auth: auth, store: store, log: log, label: labelSignedOut}
}

// LoadPersisted re-hydrates the session from the store. The username behind
// a persisted token is unknown, so the label stays generic. Returns whether
// a credential was found.
func (m *Manager) LoadPersisted() bool {
	tok := m.store.Load()
	if tok == "" {
		return false
	}
	m.mu.Lock()
	m.token = tok
	m.label = labelGeneric
	m.lastErr = ""
	m.mu.Unlock()
	m.logClaims(tok)
	return true
}

// Login runs the two-step credential acquisition. On success the session
// becomes Authenticated(username) and the token is persisted; on failure the
// session stays in its previous state and the reason is recorded for the UI.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	tok, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.mu.Lock()
		m.lastErr = err.Error()
		m.mu.Unlock()
		m.log.Warn().Str("username", username).Err(err).Msg("login rejected")
		return err
	}
	m.mu.Lock()
	m.token = tok.AccessToken
	m.label = labelGeneric + " as " + username
	m.lastErr = ""
	m.mu.Unlock()
	m.store.Save(tok.AccessToken)
	m.logClaims(tok.AccessToken)
	return nil
}

// Logout clears the in-memory credential. The persisted copy is left in
// place on purpose: loading is idempotent and the next login overwrites it.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.label = labelSignedOut
	m.lastErr = ""
	m.mu.Unlock()
}

// AdoptLabel upgrades the generic label once the username is known, e.g.
// after an explicit whoami call. No-op when unauthenticated.
func (m *Manager) AdoptLabel(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != "" && username != "" {
		m.label = labelGeneric + " as " + username
	}
}

// Token returns the current credential, "" when unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Authenticated reports whether a credential is held.
func (m *Manager) Authenticated() bool { return m.Token() != "" }

// Label returns the display text for the session state.
func (m *Manager) Label() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.label
}

// FailureReason returns the last login failure, "" after a success or reset.
func (m *Manager) FailureReason() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// logClaims peeks at the credential's claims without verifying the
// signature, purely for debug logging. An expired or opaque token is still
// trusted until the service rejects it.
func (m *Manager) logClaims(token string) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		m.log.Debug().Msg("credential is not a parseable JWT, keeping it anyway")
		return
	}
	ev := m.log.Debug().Str("subject", claims.Subject)
	if claims.ExpiresAt != nil {
		ev = ev.Time("expires", claims.ExpiresAt.Time)
		if claims.ExpiresAt.Before(time.Now()) {
			m.log.Debug().Msg("stored credential looks expired; the service will decide")
		}
	}
	ev.Msg("credential claims")
}
