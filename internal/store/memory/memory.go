// Package memory is an in-process store.KV, used by tests and as a
// fallback when no Redis is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/eallion/cloudnav/internal/store"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is a map-backed KV. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.put(key, value, 0)
}

func (s *Store) PutTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.put(key, value, ttl)
}

func (s *Store) put(key string, value []byte, ttl time.Duration) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	e := entry{value: cp}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}
