// Package scheduler runs the periodic background jobs of the storage
// service.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/store"
)

// Backupper periodically snapshots the stored collection under a
// timestamped key with a retention TTL.
type Backupper struct {
	store         store.KV
	logger        logger.Logger
	interval      time.Duration
	retention     time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	now           func() time.Time // for testing
}

// NewBackupper creates a new backup scheduler.
func NewBackupper(
	kv store.KV,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
	manualTrigger chan struct{},
) *Backupper {
	return &Backupper{
		store:         kv,
		logger:        log,
		interval:      interval,
		retention:     retention,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		now:           time.Now,
	}
}

// Start begins the periodic snapshot process.
func (b *Backupper) Start(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := b.Snapshot(ctx); err != nil {
					b.logger.Error("scheduled backup failed", logger.Error(err))
				}
			case <-b.manualTrigger:
				b.logger.Info("manual backup triggered")
				if err := b.Snapshot(ctx); err != nil {
					b.logger.Error("manual backup failed", logger.Error(err))
				}
			case <-b.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop stops the scheduler.
func (b *Backupper) Stop() {
	close(b.stopCh)
}

type backupBlob struct {
	TakenAt    int64           `json:"takenAt"`
	Links      json.RawMessage `json:"links"`
	Categories json.RawMessage `json:"categories"`
}

// Snapshot copies the current links and categories into one backup
// entry. An empty store is not an error; there is nothing to back up.
func (b *Backupper) Snapshot(ctx context.Context) error {
	links, err := b.store.Get(ctx, store.KeyLinks)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			b.logger.Debug("backup skipped, store is empty")
			return nil
		}
		return fmt.Errorf("backup read links: %w", err)
	}
	categories, err := b.store.Get(ctx, store.KeyCategories)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("backup read categories: %w", err)
	}
	if categories == nil {
		categories = []byte("[]")
	}

	now := b.now()
	blob, err := json.Marshal(backupBlob{
		TakenAt:    now.UnixMilli(),
		Links:      links,
		Categories: categories,
	})
	if err != nil {
		return fmt.Errorf("backup encode: %w", err)
	}

	key := store.BackupKey(now.UTC().Format("20060102T150405"))
	if err := b.store.PutTTL(ctx, key, blob, b.retention); err != nil {
		return fmt.Errorf("backup write: %w", err)
	}
	b.logger.Info("backup snapshot written",
		logger.String("key", key),
		logger.Int("bytes", len(blob)))
	return nil
}
