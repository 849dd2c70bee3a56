package webhook

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"pharmaguard/internal/domain"
)

const recentDeliveriesKey = "webhook:recent-deliveries"

// RecentDeliveryCache mirrors the most recent deliveries into a bounded
// Redis list so a dashboard can poll recent activity without hitting the
// durable history store. It is an optional accelerator, never the source of
// truth: failures here are logged and swallowed, matching the webhook
// path's "never fail the originating request" rule (SPEC_FULL.md §7).
type RecentDeliveryCache struct {
	client   *redis.Client
	capacity int64
}

func NewRecentDeliveryCache(client *redis.Client, capacity int) *RecentDeliveryCache {
	if capacity <= 0 {
		capacity = 50
	}
	return &RecentDeliveryCache{client: client, capacity: int64(capacity)}
}

// Push records delivery as the most recent entry, trimming the list to
// capacity.
func (c *RecentDeliveryCache) Push(ctx context.Context, delivery domain.WebhookDelivery) {
	encoded, err := json.Marshal(delivery)
	if err != nil {
		log.Printf("webhook: failed to encode delivery %s for cache: %v", delivery.ID, err)
		return
	}

	pipe := c.client.TxPipeline()
	pipe.LPush(ctx, recentDeliveriesKey, encoded)
	pipe.LTrim(ctx, recentDeliveriesKey, 0, c.capacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("webhook: failed to push delivery %s to recent cache: %v", delivery.ID, err)
	}
}

// Recent returns up to capacity most-recent deliveries, newest first.
func (c *RecentDeliveryCache) Recent(ctx context.Context) ([]domain.WebhookDelivery, error) {
	raw, err := c.client.LRange(ctx, recentDeliveriesKey, 0, c.capacity-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.WebhookDelivery, 0, len(raw))
	for _, entry := range raw {
		var d domain.WebhookDelivery
		if err := json.Unmarshal([]byte(entry), &d); err != nil {
			log.Printf("webhook: skipping malformed cached delivery: %v", err)
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// CachingHistoryStore wraps a durable DeliveryHistoryStore and mirrors every
// Record call into a RecentDeliveryCache.
type CachingHistoryStore struct {
	durable DeliveryHistoryStore
	cache   *RecentDeliveryCache
}

func NewCachingHistoryStore(durable DeliveryHistoryStore, cache *RecentDeliveryCache) *CachingHistoryStore {
	return &CachingHistoryStore{durable: durable, cache: cache}
}

func (s *CachingHistoryStore) Record(delivery domain.WebhookDelivery) error {
	s.cache.Push(context.Background(), delivery)
	return s.durable.Record(delivery)
}

// History serves unfiltered "most recent" queries straight from the Redis
// cache, falling back to the durable store whenever a filter narrows the
// query beyond what the cache holds, or the cache itself is unreachable.
func (s *CachingHistoryStore) History(filter domain.DeliveryHistoryFilter) ([]domain.WebhookDelivery, error) {
	if filter.SubscriptionID == "" && filter.EventType == "" && filter.Status == "" {
		if recent, err := s.cache.Recent(context.Background()); err == nil {
			if filter.Limit > 0 && filter.Limit < len(recent) {
				recent = recent[:filter.Limit]
			}
			return recent, nil
		}
	}

	return s.durable.History(filter)
}
