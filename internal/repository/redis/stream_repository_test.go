package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/domain/repository"
	redisRepo "github.com/cosmogony-cities/internal/repository/redis"
)

const (
	testImportStream   = "test:stream:cities:import"
	testImportedStream = "test:stream:cities:imported"
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

	client.Del(ctx, testImportStream, testImportedStream)
	return client
}

func newRepo(client *redis.Client) repository.StreamRepository {
	return redisRepo.NewStreamRepository(client, 200*time.Millisecond, zap.NewNop())
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := newRepo(client)
	ctx := context.Background()
	defer client.Del(ctx, testImportStream)

	require.NoError(t, repo.CreateConsumerGroup(ctx, testImportStream, "test-group"))

	groups, err := client.XInfoGroups(ctx, testImportStream).Result()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "test-group", groups[0].Name)

	// Creating again should not error (BUSYGROUP handled)
	assert.NoError(t, repo.CreateConsumerGroup(ctx, testImportStream, "test-group"))
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := newRepo(client)
	ctx := context.Background()
	defer client.Del(ctx, testImportedStream)

	event := &domain.ImportCompletedEvent{
		RunID:      uuid.New(),
		Table:      "administrative_regions",
		Cities:     36000,
		Rows:       36000,
		DurationMs: 4200,
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.PublishToStream(ctx, testImportedStream, event))

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{testImportedStream, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	data, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var got domain.ImportCompletedEvent
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	assert.Equal(t, event.RunID, got.RunID)
	assert.Equal(t, int64(36000), got.Rows)
	assert.Nil(t, got.RequestID)
	assert.Empty(t, got.Error)
}

func TestStreamRepository_ConsumeAndAck(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := newRepo(client)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	defer client.Del(context.Background(), testImportStream)

	group := "test-consume-group"
	require.NoError(t, repo.CreateConsumerGroup(ctx, testImportStream, group))

	request := domain.ImportRequestEvent{RequestID: uuid.New(), Input: "/data/cosmogony.json.gz"}
	require.NoError(t, repo.PublishToStream(ctx, testImportStream, request))

	msgChan, err := repo.ConsumeStream(ctx, testImportStream, group, "test-consumer")
	require.NoError(t, err)

	select {
	case msg := <-msgChan:
		var got domain.ImportRequestEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Data), &got))
		assert.Equal(t, request, got)

		pending, err := client.XPending(ctx, testImportStream, group).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), pending.Count)

		require.NoError(t, repo.AckMessage(ctx, testImportStream, group, msg.ID))

		pending, err = client.XPending(ctx, testImportStream, group).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), pending.Count)
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestStreamRepository_RedeliversPending(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := newRepo(client)
	ctx := context.Background()
	defer client.Del(ctx, testImportStream)

	group := "test-pending-group"
	require.NoError(t, repo.CreateConsumerGroup(ctx, testImportStream, group))
	require.NoError(t, repo.PublishToStream(ctx, testImportStream, domain.ImportRequestEvent{RequestID: uuid.New()}))

	// Read without ack, as a crashed worker would.
	_, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: "test-consumer",
		Streams:  []string{testImportStream, ">"},
		Count:    1,
	}).Result()
	require.NoError(t, err)

	consumeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	msgChan, err := repo.ConsumeStream(consumeCtx, testImportStream, group, "test-consumer")
	require.NoError(t, err)

	select {
	case msg, ok := <-msgChan:
		require.True(t, ok)
		assert.NotEmpty(t, msg.ID)
	case <-consumeCtx.Done():
		t.Fatal("pending message was not redelivered")
	}
}

func TestStreamRepository_ConsumeStream_ContextCancellation(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := newRepo(client)
	ctx, cancel := context.WithCancel(context.Background())
	defer client.Del(context.Background(), testImportStream)

	require.NoError(t, repo.CreateConsumerGroup(ctx, testImportStream, "test-cancel-group"))

	msgChan, err := repo.ConsumeStream(ctx, testImportStream, "test-cancel-group", "test-consumer")
	require.NoError(t, err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	select {
	case _, ok := <-msgChan:
		assert.False(t, ok, "Channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for channel to close")
	}
}
