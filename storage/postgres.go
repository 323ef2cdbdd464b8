package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quizroom/domain"
)

// PostgresStore keeps every document in a single kv_store(key, value jsonb)
// table, created by the migrations package.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func (ps *PostgresStore) Get(ctx context.Context, key string, out any) error {
	var raw []byte

	row := ps.pool.QueryRow(ctx, "SELECT value FROM kv_store WHERE key = $1", key)

	err := row.Scan(&raw)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
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

func (ps *PostgresStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	_, err = ps.pool.Exec(ctx,
		"INSERT INTO kv_store(key, value) VALUES($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		key, raw,
	)

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	return nil
}

func (ps *PostgresStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	// Keys are internal ("room:", "user:", "chat:", "cred:"), never user
	// input, so no LIKE escaping is needed.
	rows, err := ps.pool.Query(ctx,
		"SELECT value FROM kv_store WHERE key LIKE $1 || '%' ORDER BY key",
		prefix,
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}
	defer rows.Close()

	values := make([][]byte, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
		}
		values = append(values, raw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedStoreError, err)
	}

	return values, nil
}

func (ps *PostgresStore) Close() {
	ps.pool.Close()
}
