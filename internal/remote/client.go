// Package remote is the HTTP client for the storage collaborator: a
// key-value service exposing the unified /api/storage endpoint.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eallion/cloudnav/internal/domain"
)

// AuthHeader carries the write credential on mutating requests.
const AuthHeader = "x-auth-password"

var (
	// ErrUnauthorized means the collaborator rejected the credential
	// (HTTP 401): invalid or expired.
	ErrUnauthorized = errors.New("credential rejected by remote storage")
)

// Client talks to one storage collaborator instance. Calls do not retry
// and are not de-duplicated; ordering of concurrent writes is whatever
// the network delivers.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given base URL (scheme + host, no path).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

type dataPayload struct {
	Links      []domain.Link     `json:"links"`
	Categories []domain.Category `json:"categories"`
}

// FetchData reads the full link/category pair, unauthenticated and
// read-only.
func (c *Client) FetchData(ctx context.Context) ([]domain.Link, []domain.Category, error) {
	var out dataPayload
	if err := c.getJSON(ctx, "/api/storage?getConfig=true&readOnly=true", &out); err != nil {
		return nil, nil, fmt.Errorf("fetch data: %w", err)
	}
	return out.Links, out.Categories, nil
}

type authRequirement struct {
	RequiresAuth bool `json:"requiresAuth"`
}

// CheckAuth reports whether the collaborator requires a credential for
// write operations.
func (c *Client) CheckAuth(ctx context.Context) (bool, error) {
	var out authRequirement
	if err := c.getJSON(ctx, "/api/storage?checkAuth=true", &out); err != nil {
		return false, fmt.Errorf("check auth: %w", err)
	}
	return out.RequiresAuth, nil
}

// Push writes the full pair under the credential. Returns
// ErrUnauthorized on 401 so the caller can distinguish credential
// invalidation from transport trouble.
func (c *Client) Push(ctx context.Context, credential string, links []domain.Link, categories []domain.Category) error {
	err := c.postJSON(ctx, "/api/storage", credential, dataPayload{Links: links, Categories: categories})
	if err != nil {
		return fmt.Errorf("push data: %w", err)
	}
	return nil
}

// VerifyCredential validates the credential without mutating any data.
func (c *Client) VerifyCredential(ctx context.Context, credential string) error {
	err := c.postJSON(ctx, "/api/storage", credential, map[string]bool{"authOnly": true})
	if err != nil {
		return fmt.Errorf("verify credential: %w", err)
	}
	return nil
}

// Login exchanges the admin password for a session token.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer drain(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("login: %w", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("login: decode response: %w", err)
	}
	return out.Token, nil
}

// FetchWebsiteConfig reads the website sub-config, with defaults merged
// in, so the caller always sees a usable expiry window.
func (c *Client) FetchWebsiteConfig(ctx context.Context) (domain.WebsiteConfig, error) {
	var out domain.WebsiteConfig
	if err := c.getJSON(ctx, "/api/storage?getConfig=website", &out); err != nil {
		return domain.WebsiteConfig{}, fmt.Errorf("fetch website config: %w", err)
	}
	return domain.MergeWebsiteConfig(out), nil
}

// FetchSearchConfig reads the search sub-config with defaults merged in.
func (c *Client) FetchSearchConfig(ctx context.Context) (domain.SearchConfig, error) {
	var out domain.SearchConfig
	if err := c.getJSON(ctx, "/api/storage?getConfig=search", &out); err != nil {
		return domain.SearchConfig{}, fmt.Errorf("fetch search config: %w", err)
	}
	return domain.MergeSearchConfig(out), nil
}

// SaveConfig writes one named sub-config under the credential.
func (c *Client) SaveConfig(ctx context.Context, credential, name string, config any) error {
	payload := map[string]any{"saveConfig": name, "config": config}
	if err := c.postJSON(ctx, "/api/storage", credential, payload); err != nil {
		return fmt.Errorf("save %s config: %w", name, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path, credential string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if credential != "" {
		req.Header.Set(AuthHeader, credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// drain reads the rest of the body so the connection can be reused.
func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
