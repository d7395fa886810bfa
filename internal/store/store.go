// Package store defines the key-value contract the storage service is
// built on, plus the key layout shared by its backends.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key has no value, including
// values that have expired.
var ErrNotFound = errors.New("key not found")

// KV is the storage backend contract. Values are opaque byte blobs;
// all JSON encoding happens above this interface.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	PutTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
