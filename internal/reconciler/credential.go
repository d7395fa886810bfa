package reconciler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/eallion/cloudnav/internal/domain"
)

// Credential is the stored write credential plus the moment it was
// saved, so staleness can be judged against a configurable expiry
// window later.
type Credential struct {
	Token   string `json:"token"`
	SavedAt int64  `json:"savedAt"` // unix milliseconds
}

// Expired reports whether the credential is older than the expiry
// window. A permanent expiry never expires anything.
func (c Credential) Expired(expiry domain.PasswordExpiry, now time.Time) bool {
	window, ok := expiry.Normalize().Window()
	if !ok {
		return false
	}
	saved := time.UnixMilli(c.SavedAt)
	return now.Sub(saved) > window
}

// CredentialStore persists the credential as a small JSON sidecar file
// next to the data cache.
type CredentialStore struct {
	path string
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Load reads the stored credential. Missing or unreadable files mean no
// credential, never an error.
func (s *CredentialStore) Load() (Credential, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Credential{}, false
	}
	var c Credential
	if err := json.Unmarshal(raw, &c); err != nil || c.Token == "" {
		return Credential{}, false
	}
	return c, true
}

// Save stores the credential with the current time as its save moment.
func (s *CredentialStore) Save(token string) error {
	return s.save(Credential{Token: token, SavedAt: time.Now().UnixMilli()})
}

// Restore puts back a previously loaded credential without touching its
// original save moment.
func (s *CredentialStore) Restore(c Credential) error {
	return s.save(c)
}

func (s *CredentialStore) save(c Credential) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Clear removes the stored credential. Clearing an absent credential is
// a no-op.
func (s *CredentialStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
