package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"quizroom/domain"
)

// MemoryStore is a map-backed KeyValueStore. It backs local development
// and unit tests; the deployable backends live in postgres.go and redis.go.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (ms *MemoryStore) Get(ctx context.Context, key string, out any) error {
	ms.mu.RLock()
	raw, ok := ms.data[key]
	ms.mu.RUnlock()

	if !ok {
		return ErrKeyNotFound
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}
	return nil
}

func (ms *MemoryStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	ms.mu.Lock()
	ms.data[key] = raw
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	ms.mu.RLock()
	keys := make([]string, 0)
	for k := range ms.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([][]byte, 0, len(keys))
	for _, k := range keys {
		values = append(values, ms.data[k])
	}
	ms.mu.RUnlock()

	return values, nil
}
