package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/classroom-auth/internal/config"
	"github.com/dtroode/classroom-auth/internal/model"
)

// redisAPI is the subset of *redis.Client used by Scope.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ model.Scope = (*Scope)(nil)

// Scope is a durable session scope stored as plain redis strings.
type Scope struct {
	api    redisAPI
	prefix string
}

// Dial connects to redis and checks the connection.
func Dial(ctx context.Context, cfg config.Redis) (*Scope, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewScope(client, cfg.Prefix), client, nil
}

// NewScope creates a scope storing keys as prefix+key.
func NewScope(api redisAPI, prefix string) *Scope {
	return &Scope{api: api, prefix: prefix}
}

func (s *Scope) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.api.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key: %w", err)
	}
	return value, true, nil
}

func (s *Scope) Set(ctx context.Context, key, value string) error {
	if err := s.api.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (s *Scope) Delete(ctx context.Context, key string) error {
	if err := s.api.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
