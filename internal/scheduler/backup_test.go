package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/eallion/cloudnav/internal/logger"
	"github.com/eallion/cloudnav/internal/store"
	"github.com/eallion/cloudnav/internal/store/memory"
)

func TestSnapshotCopiesData(t *testing.T) {
	kv := memory.NewStore()
	ctx := context.Background()
	if err := kv.Put(ctx, store.KeyLinks, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Put links: %v", err)
	}
	if err := kv.Put(ctx, store.KeyCategories, []byte(`[{"id":"common"}]`)); err != nil {
		t.Fatalf("Put categories: %v", err)
	}

	b := NewBackupper(kv, logger.NewNop(), time.Hour, 24*time.Hour, nil)
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	if err := b.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	raw, err := kv.Get(ctx, store.BackupKey("20260828T120000"))
	if err != nil {
		t.Fatalf("backup entry missing: %v", err)
	}
	var blob backupBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if blob.TakenAt != fixed.UnixMilli() {
		t.Errorf("takenAt = %d, want %d", blob.TakenAt, fixed.UnixMilli())
	}
	if string(blob.Links) != `[{"id":"1"}]` {
		t.Errorf("links = %s, want stored blob", blob.Links)
	}
}

func TestSnapshotSkipsEmptyStore(t *testing.T) {
	b := NewBackupper(memory.NewStore(), logger.NewNop(), time.Hour, 24*time.Hour, nil)
	if err := b.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot on empty store: %v", err)
	}
}

func TestManualTrigger(t *testing.T) {
	kv := memory.NewStore()
	ctx := context.Background()
	if err := kv.Put(ctx, store.KeyLinks, []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	trigger := make(chan struct{}, 1)
	b := NewBackupper(kv, logger.NewNop(), time.Hour, 24*time.Hour, trigger)
	fixed := time.Date(2026, 8, 28, 13, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Stop()

	trigger <- struct{}{}

	deadline := time.After(2 * time.Second)
	for {
		if _, err := kv.Get(ctx, store.BackupKey("20260828T130000")); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("manual backup never appeared")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
