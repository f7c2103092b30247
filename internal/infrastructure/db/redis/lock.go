package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

const (
	defaultLockTTL  = 5 * time.Second
	defaultLockWait = 2 * time.Second
	lockRetryDelay  = 50 * time.Millisecond
)

// releaseScript deletes the lock key only if it still holds our token, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// SubmissionLock provides the exclusive per-submission mutator lease backed
// by Redis (SET NX with TTL). Key format: lock:submission:<id>
//
// A second caller for the same submission retries until the wait budget is
// spent, then fails with domain.ErrBusy. It is distinct from business errors so
// callers retry instead of treating it as a rejection.
type SubmissionLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewSubmissionLock creates a SubmissionLock. Zero durations fall back to
// defaults (5s lease, 2s acquisition wait).
func NewSubmissionLock(client *redis.Client, ttl, wait time.Duration) *SubmissionLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &SubmissionLock{client: client, ttl: ttl, wait: wait}
}

// Lock acquires the lease for submissionID, blocking up to the wait budget.
func (l *SubmissionLock) Lock(ctx context.Context, submissionID string) (func(), error) {
	key := l.key(submissionID)
	token := newToken()

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("submission lock: %w", err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("submission lock %s: %w", submissionID, domain.ErrBusy)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("submission lock: %w", ctx.Err())
		case <-time.After(lockRetryDelay):
		}
	}
}

func (l *SubmissionLock) key(submissionID string) string {
	return "lock:submission:" + submissionID
}

func newToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
