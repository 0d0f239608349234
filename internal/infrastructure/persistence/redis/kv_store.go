// Package redis provides a Redis-backed key/value store for sharing
// sessions and collections between machines
package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chefai/chefai/internal/infrastructure/config"
	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/errors"
)

const pingTimeout = 10 * time.Second

// NewClient creates a Redis client from configuration and checks the connection
func NewClient(cfg *config.Config, logger *zap.Logger) (redis.UniversalClient, error) {
	opts := &redis.UniversalOptions{
		Addrs:        cfg.RedisAddrs(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}
	if len(cfg.Redis.ClusterNodes) > 0 {
		logger.Info("Redis cluster mode enabled", zap.Strings("nodes", cfg.Redis.ClusterNodes))
	}

	client := redis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized successfully",
		zap.Strings("addrs", opts.Addrs),
		zap.Int("database", opts.DB))

	return client, nil
}

// KVStore implements outbound.KeyValueStore with plain string keys
type KVStore struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewKVStore wraps an existing client
func NewKVStore(client redis.UniversalClient, logger *zap.Logger) *KVStore {
	return &KVStore{
		client: client,
		logger: logger.Named("redis-store"),
	}
}

// Get retrieves a value from Redis
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, outbound.ErrKeyNotFound
	}
	if err != nil {
		s.logger.Error("Redis GET failed", zap.String("key", key), zap.Error(err))
		return nil, errors.NewDatabaseError("read entry", err)
	}
	return value, nil
}

// Set stores a value without expiration
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.logger.Error("Redis SET failed", zap.String("key", key), zap.Error(err))
		return errors.NewDatabaseError("write entry", err)
	}
	return nil
}

// Delete removes a key
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Redis DEL failed", zap.String("key", key), zap.Error(err))
		return errors.NewDatabaseError("delete entry", err)
	}
	return nil
}

// Close closes the client
func (s *KVStore) Close() error {
	return s.client.Close()
}
