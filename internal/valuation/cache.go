// internal/valuation/cache.go
package valuation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"mortgage-workers/internal/common/cache"
	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/common/metrics"
	"mortgage-workers/internal/models"
)

// CachedClient caches valuations in Redis, keyed by the property
// descriptor. Cache faults degrade to the wrapped client; they are
// never surfaced to the caller.
type CachedClient struct {
	inner  Client
	redis  *cache.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedClient(inner Client, redis *cache.RedisClient, ttl time.Duration, log logger.Logger) *CachedClient {
	return &CachedClient{
		inner:  inner,
		redis:  redis,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "valuation_cache"}),
	}
}

func (c *CachedClient) RequestValuation(ctx context.Context, req *Request) (*models.Valuation, error) {
	key := cacheKey(req)
	if key == "" {
		return c.inner.RequestValuation(ctx, req)
	}

	if raw, err := c.redis.Get(ctx, key); err == nil {
		var v models.Valuation
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			metrics.ValuationCacheLookups.WithLabelValues("hit").Inc()
			return &v, nil
		}
		// Unreadable entry, drop it and revalue.
		_ = c.redis.Del(ctx, key)
	}
	metrics.ValuationCacheLookups.WithLabelValues("miss").Inc()

	v, err := c.inner.RequestValuation(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(v); err == nil {
		if err := c.redis.Set(ctx, key, string(data), c.ttl); err != nil {
			c.logger.Warn("failed to cache valuation", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return v, nil
}

// cacheKey derives a stable key from the property descriptor. Requests
// without a property are not cacheable.
func cacheKey(req *Request) string {
	if req == nil || req.Property == nil {
		return ""
	}
	data, err := json.Marshal(req.Property)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("valuation:%s", hex.EncodeToString(sum[:16]))
}
