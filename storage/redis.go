package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"quizroom/domain"
)

// RedisStore is the Redis-backed KeyValueStore. Documents are stored as
// JSON strings without expiry; rooms are never deleted by the core.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{rdb: rdb}
}

func (rs *RedisStore) Get(ctx context.Context, key string, out any) error {
	raw, err := rs.rdb.Get(ctx, key).Bytes()

	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			return ErrKeyNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			return fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	return nil
}

func (rs *RedisStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	if err := rs.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	return nil
}

func (rs *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	keys := make([]string, 0)

	iter := rs.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	if len(keys) == 0 {
		return [][]byte{}, nil
	}
	sort.Strings(keys)

	raws, err := rs.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	values := make([][]byte, 0, len(raws))
	for _, raw := range raws {
		// A key can disappear between SCAN and MGET; skip the hole.
		s, ok := raw.(string)
		if !ok {
			continue
		}
		values = append(values, []byte(s))
	}

	return values, nil
}

func (rs *RedisStore) Close() error {
	return rs.rdb.Close()
}
