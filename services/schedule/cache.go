package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"spotly/models"
	"spotly/utils"
)

const slotCacheKeyPrefix = "slots:day:"

// ListCache caches per-(spaceId, day) slot listings. Listings are already
// allowed to be immediately stale (reserve revalidates at commit time), so a
// short TTL is behaviorally transparent. Cache failures degrade to repository
// reads, never to request failures.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache builds a cache over the given Redis client. A zero TTL
// disables caching entirely.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &ListCache{client: client, ttl: ttl}
}

func listKey(spaceID, day string) string {
	return fmt.Sprintf("%s%s:%s", slotCacheKeyPrefix, spaceID, day)
}

func (c *ListCache) get(ctx context.Context, spaceID, day string) ([]models.Slot, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, listKey(spaceID, day)).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(val), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *ListCache) put(ctx context.Context, spaceID, day string, slots []models.Slot) {
	if c == nil {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listKey(spaceID, day), data, c.ttl).Err(); err != nil {
		utils.GetLogger().Warn("slot list cache write failed",
			zap.String("spaceID", spaceID), zap.String("day", day), zap.Error(err))
	}
}

func (c *ListCache) invalidate(ctx context.Context, spaceID, day string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, listKey(spaceID, day)).Err(); err != nil {
		utils.GetLogger().Warn("slot list cache invalidation failed",
			zap.String("spaceID", spaceID), zap.String("day", day), zap.Error(err))
	}
}
