package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	appredis "github.com/m3r1v3/Cryptifica/pkg/redis"
)

const markerKeyPattern = "session:marker:%d"

// RedisStorage persists session markers in Redis with a TTL.
type RedisStorage struct {
	client *appredis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedisStorage builds a Redis-backed Storage implementation.
func NewRedisStorage(client *appredis.Client, ttl time.Duration, log *slog.Logger) *RedisStorage {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}

	return &RedisStorage{client: client, ttl: ttl, log: log}
}

// Get returns the stored marker or ErrMarkerNotFound when absent or expired.
func (s *RedisStorage) Get(ctx context.Context, userID int64) (*Marker, error) {
	key := markerKey(userID)

	data, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrMarkerNotFound
		}

		s.log.Error("failed to get session marker", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, err
	}

	var marker Marker
	if err := json.Unmarshal([]byte(data), &marker); err != nil {
		s.log.Error("failed to decode session marker", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, err
	}

	return &marker, nil
}

// Set overwrites the user's marker, resetting the TTL.
func (s *RedisStorage) Set(ctx context.Context, userID int64, command string) error {
	marker := Marker{
		UserID:  userID,
		Command: command,
		SetAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(marker)
	if err != nil {
		return fmt.Errorf("encode session marker: %w", err)
	}

	if err := s.client.Set(ctx, markerKey(userID), data, s.ttl); err != nil {
		s.log.Error("failed to save session marker", slog.Int64("user_id", userID), slog.Any("error", err))
		return err
	}

	return nil
}

// Clear removes the user's marker.
func (s *RedisStorage) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Delete(ctx, markerKey(userID)); err != nil {
		s.log.Error("failed to clear session marker", slog.Int64("user_id", userID), slog.Any("error", err))
		return err
	}

	return nil
}

func markerKey(userID int64) string {
	return fmt.Sprintf(markerKeyPattern, userID)
}
