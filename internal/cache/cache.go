// Package cache persists the link/category pair to a local JSON file.
// The cache exists for instant first paint and offline fallback only; it
// is never authoritative once remote data has arrived.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eallion/cloudnav/internal/domain"
)

// Snapshot is the serialized cache blob.
type Snapshot struct {
	Links      []domain.Link     `json:"links"`
	Categories []domain.Category `json:"categories"`
}

// Cache reads and writes one snapshot file.
type Cache struct {
	path string
}

func New(path string) *Cache {
	return &Cache{path: path}
}

// Load returns the cached snapshot. ok is false when the file is absent
// or unreadable as JSON; a corrupt cache is not an error condition, the
// caller falls back to defaults.
func (c *Cache) Load() (Snapshot, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

// Save writes the snapshot atomically (temp file + rename) so a crash
// mid-write cannot corrupt the previous copy.
func (c *Cache) Save(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal cache snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
