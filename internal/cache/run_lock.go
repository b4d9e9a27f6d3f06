package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const runLockKey = "validation:lock"

// ErrLockNotHeld is returned when releasing a lock that expired or was taken
// over by another holder.
var ErrLockNotHeld = errors.New("run lock not held")

// Deletes the key only while it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLock serialises validation runs across every process sharing one Redis,
// so the web server and the worker never write the report file together.
type RunLock struct {
	client   *redis.Client
	ttl      time.Duration
	interval time.Duration
	newToken func() string
}

// NewRunLock returns a lock whose hold expires after ttl if the holder dies.
func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{
		client:   client,
		ttl:      ttl,
		interval: 100 * time.Millisecond,
		newToken: func() string { return uuid.New().String() },
	}
}

// Acquire blocks until the lock is held or ctx is done. The returned func
// releases it.
func (l *RunLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := l.newToken()

	for {
		ok, err := l.client.SetNX(ctx, runLockKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire run lock: %w", ctx.Err())
		case <-time.After(l.interval):
		}
	}

	release := func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.client, []string{runLockKey}, token).Int64()
		if err != nil {
			return fmt.Errorf("release run lock: %w", err)
		}
		if n == 0 {
			return ErrLockNotHeld
		}
		return nil
	}
	return release, nil
}
