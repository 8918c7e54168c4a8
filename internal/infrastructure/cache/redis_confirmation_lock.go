package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfirmationLock serializes payment confirmation attempts across
// instances. A key is held for the lock TTL at most; Release drops it early.
type RedisConfirmationLock struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisConfirmationLock creates a Redis-backed confirmation lock
func NewRedisConfirmationLock(cfg RedisConfig) (*RedisConfirmationLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisConfirmationLock{
		client:    client,
		keyPrefix: "payment:confirm:",
	}, nil
}

// NewRedisConfirmationLockWithClient creates a lock with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisConfirmationLockWithClient(client *redis.Client, keyPrefix string) *RedisConfirmationLock {
	if keyPrefix == "" {
		keyPrefix = "payment:confirm:"
	}
	return &RedisConfirmationLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire takes the lock for key. Returns false when another holder has it.
// SETNX with TTL makes acquisition a single atomic operation.
func (l *RedisConfirmationLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire confirmation lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock for key. Releasing a lock that already expired is
// not an error.
func (l *RedisConfirmationLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release confirmation lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisConfirmationLock) Close() error {
	return l.client.Close()
}
