// internal/valuation/cache_test.go
package valuation

import (
	"context"
	"testing"
	"time"

	"mortgage-workers/internal/common/cache"
	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *cache.RedisClient {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return &cache.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
}

// countingClient records how many valuations reached the inner client.
type countingClient struct {
	inner Client
	calls int
}

func (c *countingClient) RequestValuation(ctx context.Context, req *Request) (*models.Valuation, error) {
	c.calls++
	return c.inner.RequestValuation(ctx, req)
}

func TestCachedClient_SecondLookupHitsCache(t *testing.T) {
	counter := &countingClient{inner: NewMockClient()}
	client := NewCachedClient(counter, setupRedis(t), time.Minute, logger.NewTestLogger(t))
	req := &Request{
		Property:   &models.PropertyInfo{Type: models.PropertyCondo, SquareFootage: 2200},
		LoanAmount: 300000,
	}

	first, err := client.RequestValuation(context.Background(), req)
	require.NoError(t, err)
	second, err := client.RequestValuation(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, counter.calls)
	assert.Equal(t, first.EstimatedValue, second.EstimatedValue)
	assert.Equal(t, first.Range, second.Range)
}

func TestCachedClient_DifferentPropertiesMiss(t *testing.T) {
	counter := &countingClient{inner: NewMockClient()}
	client := NewCachedClient(counter, setupRedis(t), time.Minute, logger.NewTestLogger(t))

	_, err := client.RequestValuation(context.Background(), &Request{
		Property: &models.PropertyInfo{SquareFootage: 2000},
	})
	require.NoError(t, err)
	_, err = client.RequestValuation(context.Background(), &Request{
		Property: &models.PropertyInfo{SquareFootage: 2500},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, counter.calls)
}

func TestCachedClient_NoPropertyBypassesCache(t *testing.T) {
	counter := &countingClient{inner: NewMockClient()}
	client := NewCachedClient(counter, setupRedis(t), time.Minute, logger.NewTestLogger(t))

	_, err := client.RequestValuation(context.Background(), &Request{LoanAmount: 200000})
	require.NoError(t, err)
	_, err = client.RequestValuation(context.Background(), &Request{LoanAmount: 200000})
	require.NoError(t, err)

	assert.Equal(t, 2, counter.calls)
}

func TestCachedClient_CorruptEntryIsRevalued(t *testing.T) {
	redisClient := setupRedis(t)
	counter := &countingClient{inner: NewMockClient()}
	client := NewCachedClient(counter, redisClient, time.Minute, logger.NewTestLogger(t))
	req := &Request{Property: &models.PropertyInfo{SquareFootage: 1800}}

	require.NoError(t, redisClient.Set(context.Background(), cacheKey(req), "{broken", time.Minute))

	v, err := client.RequestValuation(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, counter.calls)
	assert.Equal(t, 360000.0, v.EstimatedValue)
}
