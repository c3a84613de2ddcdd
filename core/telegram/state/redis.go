package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"
)

type redisManager struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures the Redis-backed manager.
type RedisOption func(*redisManager)

// WithTTL sets the session expiry. Zero disables it.
func WithTTL(ttl time.Duration) RedisOption {
	return func(m *redisManager) { m.ttl = ttl }
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(m *redisManager) { m.prefix = prefix }
}

// NewRedisManager constructs a Manager persisted in Redis, surviving bot
// restarts. Replace-on-write via SET keeps the per-key update atomic.
func NewRedisManager(client *backend.Client, opts ...RedisOption) Manager {
	m := &redisManager{
		client: client,
		prefix: "finkurs:session:",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *redisManager) key(sessionID int64) string {
	return m.prefix + strconv.FormatInt(sessionID, 10)
}

func (m *redisManager) Get(ctx context.Context, sessionID int64) (Session, error) {
	data, err := m.client.Get(ctx, m.key(sessionID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return Session{State: StateNone}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("session get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("session decode: %w", err)
	}
	return s, nil
}

func (m *redisManager) Set(ctx context.Context, sessionID int64, s Session) error {
	s.Touched = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := m.client.Set(ctx, m.key(sessionID), data, m.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (m *redisManager) Clear(ctx context.Context, sessionID int64) error {
	if err := m.client.Del(ctx, m.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
