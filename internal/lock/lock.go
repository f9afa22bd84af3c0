// Package lock serialises read-modify-write cycles on a single student ledger.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld indicates another request currently owns the lock.
var ErrLockHeld = errors.New("student ledger is locked by another request")

// DefaultTTL bounds how long a crashed holder can block a student.
const DefaultTTL = 10 * time.Second

const keyPrefix = "lock:student:"

// compare-and-delete so a holder never releases a lock it no longer owns
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker acquires exclusive access to a key.
type Locker interface {
	// Acquire returns a release function once the key is held.
	Acquire(ctx context.Context, key string) (func(context.Context) error, error)
}

// RedisLocker implements Locker with SET NX PX and a token checked on release.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
}

// NewRedisLocker constructs a locker. A zero ttl falls back to DefaultTTL.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		wait:   2 * time.Second,
	}
}

// WithWait sets how long Acquire keeps polling before giving up.
func (l *RedisLocker) WithWait(wait time.Duration) *RedisLocker {
	if wait > 0 {
		l.wait = wait
	}
	return l
}

// Acquire polls until the key is free, the wait budget is spent or ctx ends.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func(releaseCtx context.Context) error {
				if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
					return fmt.Errorf("release lock %s: %w", key, err)
				}
				return nil
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockHeld
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Noop grants every request immediately. It is used when Redis is not configured
// and the optimistic version check is the only guard.
type Noop struct{}

// Acquire implements Locker.
func (Noop) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
