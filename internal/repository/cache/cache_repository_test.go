package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/repository/cache"
)

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	return client
}

func TestCacheRepository_GetSetDelete(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := cache.NewCacheRepository(cache.NewRedisFromClient(client, zap.NewNop()))
	ctx := context.Background()
	key := "test:cache:region:1"
	defer client.Del(ctx, key)

	val, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val, "miss returns nil without error")

	require.NoError(t, repo.Set(ctx, key, []byte(`{"id":1}`), time.Minute))

	val, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(val))

	require.NoError(t, repo.Delete(ctx, key))
	val, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestCacheRepository_DeleteByPrefix(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := cache.NewCacheRepository(cache.NewRedisFromClient(client, zap.NewNop()))
	ctx := context.Background()

	for i := 0; i < 1200; i++ {
		require.NoError(t, client.Set(ctx, fmt.Sprintf("test:prefix:region:%d", i), "x", time.Minute).Err())
	}
	require.NoError(t, client.Set(ctx, "test:prefix:other", "keep", time.Minute).Err())
	defer client.Del(ctx, "test:prefix:other")

	deleted, err := repo.DeleteByPrefix(ctx, "test:prefix:region:")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), deleted)

	exists, err := client.Exists(ctx, "test:prefix:other").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestCacheRepository_Stats(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := cache.NewCacheRepository(cache.NewRedisFromClient(client, zap.NewNop()))
	ctx := context.Background()
	defer client.Del(ctx, "stats:current")
	client.Del(ctx, "stats:current")

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Nil(t, stats)

	want := &domain.Statistics{Regions: 36000, WithBoundary: 35000, WithInsee: 34900}
	require.NoError(t, repo.SetStats(ctx, want, time.Minute))

	stats, err = repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, stats)
}
