package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingCache struct{ *memoryCache }

func (f *failingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func TestCacheServiceHitMissAndInvalidate(t *testing.T) {
	repo := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, 0, zap.NewNop(), true)
	ctx := context.Background()
	require.True(t, svc.Enabled())

	var dest map[string]int
	hit, err := svc.Get(ctx, TimetableCacheKey("p-1", "7A"), &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, TimetableCacheKey("p-1", "7A"), map[string]int{"periods": 30}, time.Minute))
	require.NoError(t, svc.Set(ctx, TimetableCacheKey("p-1", "7B"), map[string]int{"periods": 30}, 0))
	hit, err = svc.Get(ctx, TimetableCacheKey("p-1", "7A"), &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 30, dest["periods"])

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 0.0001)

	require.NoError(t, svc.InvalidateClass(ctx, "p-1", "7A"))
	hit, _ = svc.Get(ctx, TimetableCacheKey("p-1", "7A"), &dest)
	assert.False(t, hit)
	hit, _ = svc.Get(ctx, TimetableCacheKey("p-1", "7B"), &dest)
	assert.True(t, hit)

	require.NoError(t, svc.InvalidateProject(ctx, "p-1"))
	hit, _ = svc.Get(ctx, TimetableCacheKey("p-1", "7B"), &dest)
	assert.False(t, hit)
	assert.Equal(t, []string{"timetable:p-1:7A", "timetable:p-1:*"}, repo.invalidated)
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(nil, nil, time.Minute, nil, true)
	assert.False(t, svc.Enabled())

	var dest string
	hit, err := svc.Get(context.Background(), "k", &dest)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	assert.NoError(t, svc.InvalidateProject(context.Background(), "p"))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}

func TestCacheServiceBackendError(t *testing.T) {
	repo := &failingCache{memoryCache: newMemoryCache()}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	var dest string
	hit, err := svc.Get(context.Background(), "k", &dest)
	assert.Error(t, err)
	assert.False(t, hit)
}
