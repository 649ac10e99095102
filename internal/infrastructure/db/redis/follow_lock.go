package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockTTL       = 5 * time.Second
	lockRetryWait = 25 * time.Millisecond
)

// FollowLock serializes follow/unfollow toggles per (page, actor) pair
// using a Redis SETNX lease.
// Key format: followlock:<page_id>:<user_id>
type FollowLock struct {
	client *redis.Client
}

// NewFollowLock creates a FollowLock wrapping the given Redis client.
func NewFollowLock(client *redis.Client) *FollowLock {
	return &FollowLock{client: client}
}

// Acquire blocks until the (page, user) lease is held or ctx is done.
// The TTL bounds the damage of a crashed holder; callers release well
// within it since the guarded section is a handful of document updates.
func (l *FollowLock) Acquire(ctx context.Context, pageID, userID string) (func(), error) {
	key := l.key(pageID, userID)

	for {
		ok, err := l.client.SetNX(ctx, key, "1", lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("follow lock: %w", err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = l.client.Del(releaseCtx, key).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
}

func (l *FollowLock) key(pageID, userID string) string {
	return fmt.Sprintf("followlock:%s:%s", pageID, userID)
}
