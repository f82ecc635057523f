// Package limiter implements the per-participant cooldown used by the
// reaction and chat write paths.  The check is a single SET NX PX, so
// two concurrent writes from the same participant cannot both pass: the
// key either exists or is claimed atomically by exactly one caller.
// When Redis is unavailable the handlers fall back to comparing against
// the participant's most recent row in the database.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown wraps a Redis client.  A nil client disables the limiter;
// Acquire then always reports that the fallback should be used.
type Cooldown struct {
	rdb    *redis.Client
	prefix string
}

// NewCooldown builds a cooldown limiter with the given key prefix.
func NewCooldown(rdb *redis.Client, prefix string) *Cooldown {
	if prefix == "" {
		prefix = "cooldown"
	}
	return &Cooldown{rdb: rdb, prefix: prefix}
}

// Acquire attempts to claim the cooldown slot for (scope, activity,
// participant).  It returns (allowed, usedRedis).  usedRedis is false
// when Redis is not configured or errored, in which case the caller
// must apply its database fallback check instead.
func (c *Cooldown) Acquire(ctx context.Context, scope string, activityID, participantID uint64, window time.Duration) (bool, bool) {
	if c == nil || c.rdb == nil {
		return false, false
	}
	key := fmt.Sprintf("%s:%s:%d:%d", c.prefix, scope, activityID, participantID)
	ok, err := c.rdb.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return false, false
	}
	return ok, true
}

// Release drops a previously acquired slot.  Used when the write that
// followed Acquire failed, so the participant is not penalized for a
// server-side error.
func (c *Cooldown) Release(ctx context.Context, scope string, activityID, participantID uint64) {
	if c == nil || c.rdb == nil {
		return
	}
	key := fmt.Sprintf("%s:%s:%d:%d", c.prefix, scope, activityID, participantID)
	_ = c.rdb.Del(ctx, key).Err()
}
