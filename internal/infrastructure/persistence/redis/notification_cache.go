package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNREAD COUNTER CACHE
// ══════════════════════════════════════════════════════════════════════════════

// UnreadCounterCache implements notification.UnreadCounter backed by Redis.
// Counters expire after TTLUnreadCounter so a lost increment or decrement
// self-heals on the next database read-through.
type UnreadCounterCache struct {
	cache *Cache
}

// NewUnreadCounterCache creates a new unread counter cache.
func NewUnreadCounterCache(cache *Cache) *UnreadCounterCache {
	return &UnreadCounterCache{cache: cache}
}

func (u *UnreadCounterCache) key(recipientID identity.UserID) string {
	return PrefixUnread + string(recipientID)
}

// Get returns the cached unread count. The second result is false on a miss.
func (u *UnreadCounterCache) Get(ctx context.Context, recipientID identity.UserID) (int, bool, error) {
	val, err := u.cache.client.Get(ctx, u.key(recipientID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	return count, true, nil
}

// Set stores the unread count with the standard TTL.
func (u *UnreadCounterCache) Set(ctx context.Context, recipientID identity.UserID, count int) error {
	if count < 0 {
		count = 0
	}
	return u.cache.client.Set(ctx, u.key(recipientID), count, TTLUnreadCounter).Err()
}

// Increment increases the counter by one if it is cached.
// A missing key stays missing so the next Get falls through to the database.
func (u *UnreadCounterCache) Increment(ctx context.Context, recipientID identity.UserID) error {
	key := u.key(recipientID)

	exists, err := u.cache.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return nil
	}

	return u.cache.client.Incr(ctx, key).Err()
}

// Decrement decreases the counter by one, never going below zero.
func (u *UnreadCounterCache) Decrement(ctx context.Context, recipientID identity.UserID) error {
	key := u.key(recipientID)

	exists, err := u.cache.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return nil
	}

	val, err := u.cache.client.Decr(ctx, key).Result()
	if err != nil {
		return err
	}
	if val < 0 {
		return u.cache.client.Set(ctx, key, 0, TTLUnreadCounter).Err()
	}

	return nil
}

// Invalidate drops the cached counter.
func (u *UnreadCounterCache) Invalidate(ctx context.Context, recipientID identity.UserID) error {
	return u.cache.Delete(ctx, u.key(recipientID))
}
