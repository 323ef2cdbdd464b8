package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"quizroom/domain"
	"quizroom/storage"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { redisContainer.Terminate(ctx) })

	connString, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)
	addr := strings.TrimPrefix(connString, "redis://")

	store := storage.NewRedisStore(addr, "", 0)
	t.Cleanup(func() { store.Close() })

	t.Run("Get_Missing", func(t *testing.T) {
		var out domain.ChatMessage
		err := store.Get(ctx, "chat:ghost", &out)
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("SetGet_Roundtrip", func(t *testing.T) {
		in := []domain.ChatMessage{
			{Id: 1, UserId: "u1", Message: "hello"},
			{Id: 2, UserId: "u2", Message: "hi"},
		}
		require.NoError(t, store.Set(ctx, "chat:r1", in))

		var out []domain.ChatMessage
		require.NoError(t, store.Get(ctx, "chat:r1", &out))
		assert.Equal(t, in, out)
	})

	t.Run("GetByPrefix", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "user:u1", domain.UserProfile{Id: "u1"}))
		require.NoError(t, store.Set(ctx, "user:u2", domain.UserProfile{Id: "u2"}))
		require.NoError(t, store.Set(ctx, "room:r1", domain.Room{Id: "r1"}))

		values, err := store.GetByPrefix(ctx, "user:")
		require.NoError(t, err)
		require.Len(t, values, 2)
		assert.Contains(t, string(values[0]), `"id":"u1"`)
		assert.Contains(t, string(values[1]), `"id":"u2"`)
	})

	t.Run("GetByPrefix_NoMatches", func(t *testing.T) {
		values, err := store.GetByPrefix(ctx, "cred:")
		require.NoError(t, err)
		assert.Empty(t, values)
	})
}
