package service

import (
	"context"
	"study_planner_backend/internal/model"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalyticsCache_NoClientIsNoop(t *testing.T) {
	cache := NewAnalyticsCache(nil, time.Minute)
	_, ok := cache.(NoopAnalyticsCache)
	require.True(t, ok)

	var dest map[string]int
	hit, err := cache.Get(context.Background(), 1, &dest)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cache.Set(context.Background(), 1, map[string]int{"a": 1}))
	assert.NoError(t, cache.Invalidate(context.Background(), 1))
}

func TestAnalyticsKey(t *testing.T) {
	assert.Equal(t, "study_planner:analytics:42", analyticsKey(42))
}

func TestRedisAnalyticsCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewAnalyticsCache(client, time.Minute)
	_, ok := cache.(*RedisAnalyticsCache)
	require.True(t, ok)

	var dest map[string]int
	hit, err := cache.Get(context.Background(), 1, &dest)
	assert.Error(t, err)
	assert.False(t, hit)
}

func newRedisCache(t *testing.T) (*miniredis.Miniredis, *RedisAnalyticsCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisAnalyticsCache(client, time.Minute)
}

type snapshot struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletionRate float64 `json:"completionRate"`
}

func TestRedisAnalyticsCache_SetGetInvalidate(t *testing.T) {
	mr, cache := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 1, snapshot{TotalTasks: 4, CompletionRate: 25}))
	assert.Equal(t, time.Minute, mr.TTL(analyticsKey(1)))

	var got snapshot
	hit, err := cache.Get(ctx, 1, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, snapshot{TotalTasks: 4, CompletionRate: 25}, got)

	require.NoError(t, cache.Invalidate(ctx, 1))
	hit, err = cache.Get(ctx, 1, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisAnalyticsCache_Expires(t *testing.T) {
	mr, cache := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 3, snapshot{TotalTasks: 1}))
	mr.FastForward(2 * time.Minute)

	var got snapshot
	hit, err := cache.Get(ctx, 3, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisAnalyticsCache_InvalidateAllKeepsOtherKeys(t *testing.T) {
	mr, cache := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 1, snapshot{TotalTasks: 1}))
	require.NoError(t, cache.Set(ctx, 2, snapshot{TotalTasks: 2}))
	require.NoError(t, mr.Set("study_planner:session:1", "keep"))

	require.NoError(t, cache.InvalidateAll(ctx))

	for _, userID := range []uint{1, 2} {
		var got snapshot
		hit, err := cache.Get(ctx, userID, &got)
		require.NoError(t, err)
		assert.False(t, hit, "user %d snapshot should be gone", userID)
	}
	assert.True(t, mr.Exists("study_planner:session:1"))

	// nothing left to drop
	assert.NoError(t, cache.InvalidateAll(ctx))
}

func TestAnalytics_RedisCacheInvalidatedByTaskChanges(t *testing.T) {
	env := newTestEnv(t)
	_, cache := newRedisCache(t)
	env.task.Cache = cache
	env.studyPlan.Cache = cache
	ctx := context.Background()

	u := env.user(t, "redis@example.com")
	s := env.newSubject(t, u.ID, "Chemistry", model.DifficultyMedium, 20)
	env.seedTasks(t, u.ID, s.ID, model.TaskPending, 2)

	first, err := env.studyPlan.Analytics(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalTasks)
	assert.Zero(t, first.CompletedTasks)

	tasks, err := env.task.List(ctx, u.ID, model.TaskFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, tasks)
	_, err = env.task.Complete(ctx, u.ID, tasks[0].ID)
	require.NoError(t, err)

	fresh, err := env.studyPlan.Analytics(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.CompletedTasks)

	// the overdue sweep flushes every snapshot
	n, err := env.task.MarkOverdueMissed(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	var cached map[string]interface{}
	hit, err := cache.Get(ctx, u.ID, &cached)
	require.NoError(t, err)
	assert.False(t, hit)
}
