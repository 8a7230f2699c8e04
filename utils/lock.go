package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const bookingLockPrefix = "lock:booking:"

// ErrLockHeld is returned when another caller holds the provider lock.
var ErrLockHeld = errors.New("provider booking lock is held")

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

const lockRetryInterval = 25 * time.Millisecond

// RedisProviderLocker serializes booking writes per provider. A caller waits up
// to wait for a held lock before giving up.
type RedisProviderLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisProviderLocker(client *redis.Client, ttl, wait time.Duration) *RedisProviderLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait < 0 {
		wait = 0
	}
	return &RedisProviderLocker{client: client, ttl: ttl, wait: wait}
}

// pollUntil calls try until it reports success or an error, wait elapses, or
// ctx ends. A zero wait tries exactly once.
func pollUntil(ctx context.Context, wait, interval time.Duration, try func() (bool, error)) (bool, error) {
	ok, err := try()
	if err != nil || ok || wait <= 0 {
		return ok, err
	}
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return false, nil
		case <-ticker.C:
			if ok, err := try(); err != nil || ok {
				return ok, err
			}
		}
	}
}

// Acquire takes the provider lock, waiting a bounded time if it is held. The
// returned release func is safe to call once the lock has expired.
func (l *RedisProviderLocker) Acquire(ctx context.Context, providerID string) (func(), error) {
	key := bookingLockPrefix + providerID
	token := uuid.New().String()

	ok, err := pollUntil(ctx, l.wait, lockRetryInterval, func() (bool, error) {
		return l.client.SetNX(ctx, key, token, l.ttl).Result()
	})
	if err != nil {
		return nil, fmt.Errorf("acquire provider lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			GetLogger().Warn("failed to release provider lock", zap.String("providerID", providerID), zap.Error(err))
		}
	}
	return release, nil
}
