// Package api implements the HTTP client for the remote trip analytics
// service. Every data read carries an Authorization bearer header when a
// credential is supplied and omits it otherwise; the service decides whether
// an unauthenticated read is acceptable.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrUnauthorized is returned for any 401 response so callers can surface a
// session-level notice without inspecting status codes.
var ErrUnauthorized = errors.New("unauthorized")

// Client talks to one trip analytics service instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string { return c.baseURL }

// Login acquires a credential. The primary endpoint speaks the form-encoded
// password grant; when it answers anything but success the same credentials
// are retried once against the JSON fallback endpoint. The two-step protocol
// tolerates backends exposing either content-type convention. Only when both
// attempts fail is the login reported as failed.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	tok, formErr := c.loginForm(ctx, username, password)
	if formErr == nil {
		return tok, nil
	}
	c.log.Debug().Err(formErr).Msg("form token endpoint rejected login, trying JSON fallback")
	tok, jsonErr := c.loginJSON(ctx, username, password)
	if jsonErr == nil {
		return tok, nil
	}
	return Token{}, fmt.Errorf("login failed: %v (fallback: %w)", formErr, jsonErr)
}

func (c *Client) loginForm(ctx context.Context, username, password string) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)
	form.Set("scope", "")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.decodeToken(req)
}

func (c *Client) loginJSON(ctx context.Context, username, password string) (Token, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return Token{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/token-json", bytes.NewReader(body))
	if err != nil {
		return Token{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.decodeToken(req)
}

func (c *Client) decodeToken(req *http.Request) (Token, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Token{}, fmt.Errorf("auth endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	var tok Token
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return Token{}, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	if tok.AccessToken == "" {
		return Token{}, errors.New("auth endpoint returned an empty access_token")
	}
	return tok, nil
}

// Whoami resolves the username behind a credential.
func (c *Client) Whoami(ctx context.Context, token string) (Whoami, error) {
	var out Whoami
	err := c.getJSON(ctx, token, "/api/auth/whoami", "", &out)
	return out, err
}

// Summary fetches aggregate stats for the given filter query.
func (c *Client) Summary(ctx context.Context, token, query string) (Summary, error) {
	var out Summary
	err := c.getJSON(ctx, token, "/api/trips/summary", query, &out)
	return out, err
}

// Trips fetches the listing. The query is either a filter query or a
// "sort=field" query for the single-endpoint column sort.
func (c *Client) Trips(ctx context.Context, token, query string) ([]Trip, error) {
	var out []Trip
	err := c.getJSON(ctx, token, "/api/trips", query, &out)
	return out, err
}

// TimeDistribution fetches trip counts per pickup hour.
func (c *Client) TimeDistribution(ctx context.Context, token, query string) (TimeDistribution, error) {
	var out TimeDistribution
	err := c.getJSON(ctx, token, "/api/trips/time-distribution", query, &out)
	return out, err
}

// DurationHistogram fetches binned trip durations.
func (c *Client) DurationHistogram(ctx context.Context, token, query string) (DurationHistogram, error) {
	var out DurationHistogram
	err := c.getJSON(ctx, token, "/api/trips/duration-histogram", query, &out)
	return out, err
}

// PickupHeatmap fetches a sample of pickup locations.
func (c *Client) PickupHeatmap(ctx context.Context, token, query string) (PickupHeatmap, error) {
	var out PickupHeatmap
	err := c.getJSON(ctx, token, "/api/trips/pickup-heatmap", query, &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, token, path, query string, out interface{}) error {
	u := c.baseURL + path
	if query != "" {
		u += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("trip service read")
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", path, ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", path, err)
	}
	return nil
}
