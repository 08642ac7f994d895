package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	dom "github.com/Mahran1998/opsflow/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyList = "req:list:"

// RequestCache caches list results in Redis, keyed by the (status, query)
// filter pair.
type RequestCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRequestCache returns a new RequestCache.
func NewRequestCache(rdb *redis.Client, ttl time.Duration) *RequestCache {
	return &RequestCache{rdb: rdb, ttl: ttl}
}

// ListKey builds the cache key for a list filter. Exported so the service can
// reuse it as a singleflight key.
func ListKey(status *dom.Status, q string) string {
	s := ""
	if status != nil {
		s = string(*status)
	}
	return keyList + s + ":" + normalizeQuery(q)
}

// GetList returns the cached list for the filter, or nil on miss.
func (c *RequestCache) GetList(ctx context.Context, key string) ([]dom.Request, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Request
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list result under the filter key.
func (c *RequestCache) SetList(ctx context.Context, key string, list []dom.Request) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// InvalidateLists removes every cached list (cache invalidation on write).
func (c *RequestCache) InvalidateLists(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyList+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
