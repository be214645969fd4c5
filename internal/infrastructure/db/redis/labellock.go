package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 50 * time.Millisecond
)

// unlockScript deletes the lock key only when the fencing token still
// matches, so an expired-and-reacquired lock is never released by its
// previous holder.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// LabelLock serialises shared-language reconciliation per logical label.
// Key format: langlock:<lower-cased label>
type LabelLock struct {
	client *redis.Client
}

// NewLabelLock creates a LabelLock wrapping the given Redis client.
func NewLabelLock(client *redis.Client) *LabelLock {
	return &LabelLock{client: client}
}

// Acquire blocks until the label lock is held or ctx ends, returning the
// fencing token Release requires.
func (l *LabelLock) Acquire(ctx context.Context, label string) (string, error) {
	token := uuid.NewString()
	key := l.key(label)

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return "", fmt.Errorf("acquire label lock: %w", err)
		}
		if ok {
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
}

// Release drops the lock if the token still owns it.
func (l *LabelLock) Release(ctx context.Context, label, token string) error {
	if err := unlockScript.Run(ctx, l.client, []string{l.key(label)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release label lock: %w", err)
	}
	return nil
}

func (l *LabelLock) key(label string) string {
	return "langlock:" + strings.ToLower(label)
}
