package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	metrics := NewMetricsService()
	cache := NewCacheService(newMemoryCache(), metrics, time.Minute, nil, true)

	var out string
	assert.False(t, cache.Get(ctx, "insight:s1", &out))

	cache.Set(ctx, "insight:s1", "steady progress", 0)
	assert.True(t, cache.Get(ctx, "insight:s1", &out))
	assert.Equal(t, "steady progress", out)

	cache.Invalidate(ctx, "insight:*")
	assert.False(t, cache.Get(ctx, "insight:s1", &out))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.cacheMisses))
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCache()
	cache := NewCacheService(repo, nil, 0, nil, false)

	cache.Set(ctx, "k", "v", time.Minute)
	var out string
	assert.False(t, cache.Get(ctx, "k", &out))
	assert.Empty(t, repo.entries)

	var missing *CacheService
	assert.False(t, missing.Enabled())
}

func TestMetricsServiceIsNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordInsight("generated")
	m.RecordReminder("sent")
	m.ObserveStorageOp("get", time.Millisecond)
	m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	live := NewMetricsService()
	live.ObserveStorageOp("set", time.Millisecond)
	live.RecordReminder("sent")
	assert.Equal(t, 1.0, testutil.ToFloat64(live.reminders.WithLabelValues("sent")))
	assert.NotNil(t, live.Handler())
}
