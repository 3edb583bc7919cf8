package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3r1v3/Cryptifica/internal/session"
	appredis "github.com/m3r1v3/Cryptifica/pkg/redis"
)

func setupTestRedis(t *testing.T) (*appredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &appredis.Client{Client: rdb}, mr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisStorageSetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	storage := session.NewRedisStorage(client, time.Minute, testLogger())

	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, 42, "search"))

	marker, err := storage.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), marker.UserID)
	assert.Equal(t, "search", marker.Command)
	assert.False(t, marker.SetAt.IsZero())
}

func TestRedisStorageGetNotFound(t *testing.T) {
	client, _ := setupTestRedis(t)
	storage := session.NewRedisStorage(client, time.Minute, testLogger())

	_, err := storage.Get(context.Background(), 999)
	assert.ErrorIs(t, err, session.ErrMarkerNotFound)
}

func TestRedisStorageOverwrite(t *testing.T) {
	client, _ := setupTestRedis(t)
	storage := session.NewRedisStorage(client, time.Minute, testLogger())

	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, 42, "search"))
	require.NoError(t, storage.Set(ctx, 42, "alarm-on"))

	marker, err := storage.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alarm-on", marker.Command, "later marker must win")
}

func TestRedisStorageClearIsIdempotent(t *testing.T) {
	client, _ := setupTestRedis(t)
	storage := session.NewRedisStorage(client, time.Minute, testLogger())

	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, 42, "search"))
	require.NoError(t, storage.Clear(ctx, 42))
	require.NoError(t, storage.Clear(ctx, 42))

	_, err := storage.Get(ctx, 42)
	assert.ErrorIs(t, err, session.ErrMarkerNotFound)
}

func TestRedisStorageExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	storage := session.NewRedisStorage(client, time.Minute, testLogger())

	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, 42, "search"))

	mr.FastForward(2 * time.Minute)

	_, err := storage.Get(ctx, 42)
	assert.ErrorIs(t, err, session.ErrMarkerNotFound)
}
