package session

import (
	"os"
	"path/filepath"
	"strings"
)

// Store is a durable slot for one bearer credential. Both operations are
// best-effort: storage failures never reach the caller, they degrade to
// "token absent". No expiry is tracked; a stored token is trusted until the
// remote service rejects it.
type Store interface {
	Save(token string)
	Load() string
}

// FileStore keeps the credential in a single file, surviving restarts the
// way the web frontend's localStorage slot survives page reloads.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path. The parent directory is
// created lazily on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the token, silently dropping it when the filesystem refuses.
func (s *FileStore) Save(token string) {
	if s.path == "" {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o700)
	_ = os.WriteFile(s.path, []byte(token), 0o600)
}

// Load returns the stored token, or "" when the slot is empty or unreadable.
func (s *FileStore) Load() string {
	if s.path == "" {
		return ""
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	token string
}

func (s *MemStore) Save(token string) { s.token = token }
func (s *MemStore) Load() string      { return s.token }
