// Package kv provides the small mutable key-value state the engine needs
// between ticks: idempotency markers, debounce timestamps, and the
// persisted settings snapshot.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benvon/dayflow/internal/config"
	"github.com/redis/go-redis/v9"
)

const settingsKey = "app_settings"

// Store is a redis-backed key-value store
type Store struct {
	client *redis.Client
}

// NewStore connects to redis using a redis URL
func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Store{client: redis.NewClient(opts)}, nil
}

// NewStoreWithClient wraps an existing redis client
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Client exposes the underlying redis client for collaborators that need
// their own redis-backed state (the HTTP rate limiter)
func (s *Store) Client() *redis.Client {
	return s.client
}

// Get returns the value for key, or "" when the key is absent
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

// Set stores a value without expiry
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Delete removes a single key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Keys returns all keys matching the prefix, using SCAN so the store is
// never blocked by a full keyspace sweep
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys with prefix %q: %w", prefix, err)
	}
	return keys, nil
}

// DeleteByPrefix removes every key matching the prefix
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	keys, err := s.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys with prefix %q: %w", prefix, err)
	}
	return nil
}

// HealthCheck verifies the redis connection is healthy
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Close releases the redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// SaveSettings persists a settings snapshot as JSON
func (s *Store) SaveSettings(ctx context.Context, settings config.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return s.Set(ctx, settingsKey, string(data))
}

// LoadSettings returns the persisted settings snapshot, or nil when none
// has been saved yet
func (s *Store) LoadSettings(ctx context.Context) (*config.Settings, error) {
	raw, err := s.Get(ctx, settingsKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	settings := config.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &settings, nil
}

// Ensure Store satisfies the settings persister contract
var _ config.Persister = (*Store)(nil)
