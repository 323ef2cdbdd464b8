package storage

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key-not-found")

// KeyValueStore is the single source of truth for every document the
// service owns. Backends JSON-encode values; callers pass document structs.
// No backend keeps cross-request in-memory state.
type KeyValueStore interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any) error
	// GetByPrefix returns the raw JSON values of every key under prefix,
	// ordered by key.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
}
