package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rcc-portal/internal/models"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

type stubGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if key == pattern || (prefix != pattern && strings.HasPrefix(key, prefix)) {
			delete(c.entries, key)
		}
	}
	return nil
}

func TestInsightFallbackTexts(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)

	noKey := NewInsightService(g, nil, nil, nil, nil, InsightConfig{})
	got, err := noKey.ForStudent(ctx, teacher, "s1")
	require.NoError(t, err)
	assert.Equal(t, InsightErrorText, got.Summary)

	failing := NewInsightService(g, &stubGenerator{err: errors.New("quota")}, nil, nil, nil, InsightConfig{})
	got, err = failing.ForStudent(ctx, teacher, "s1")
	require.NoError(t, err)
	assert.Equal(t, InsightErrorText, got.Summary)

	empty := NewInsightService(g, &stubGenerator{}, nil, nil, nil, InsightConfig{})
	got, err = empty.ForStudent(ctx, teacher, "s1")
	require.NoError(t, err)
	assert.Equal(t, InsightEmptyText, got.Summary)
}

func TestInsightCachesGeneratedText(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	metrics := NewMetricsService()
	gen := &stubGenerator{text: "Strong in Chemistry."}
	cache := NewCacheService(newMemoryCache(), metrics, time.Minute, nil, true)
	svc := NewInsightService(g, gen, cache, metrics, nil, InsightConfig{})

	first, err := svc.ForStudent(ctx, student, "")
	require.NoError(t, err)
	assert.Equal(t, "Strong in Chemistry.", first.Summary)
	assert.False(t, first.Cached)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Sidharth Kumar")

	second, err := svc.ForStudent(ctx, student, "s1")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, gen.calls)

	svc.Invalidate(ctx, "s1")
	_, err = svc.ForStudent(ctx, student, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.insights.WithLabelValues("generated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.insights.WithLabelValues("cached")))
}

func TestInsightFailuresAreNotCached(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{err: errors.New("timeout")}
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	svc := NewInsightService(newGateway(t), gen, cache, nil, nil, InsightConfig{})

	_, err := svc.ForStudent(ctx, teacher, "s2")
	require.NoError(t, err)
	_, err = svc.ForStudent(ctx, teacher, "s2")
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestInsightScoping(t *testing.T) {
	ctx := context.Background()
	svc := NewInsightService(newGateway(t), &stubGenerator{text: "ok"}, nil, nil, nil, InsightConfig{})

	_, err := svc.ForStudent(ctx, other, "s1")
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.ForStudent(ctx, teacher, "s9")
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	got, err := svc.ForStudent(ctx, other, "")
	require.NoError(t, err)
	assert.Equal(t, models.Insight{StudentID: "s2", Summary: "ok"}, *got)
}
