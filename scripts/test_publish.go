// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cosmogony-cities/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	input := flag.String("input", "", "Cosmogony export to import (worker default when empty)")
	wait := flag.Duration("wait", 5*time.Minute, "How long to wait for the completion event")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := domain.ImportRequestEvent{
		RequestID: uuid.New(),
		Input:     *input,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Запоминаем хвост стрима результатов до публикации
	lastID := "$"
	if last, err := client.XRevRangeN(ctx, domain.StreamCitiesImported, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamCitiesImport,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}
	fmt.Printf("Published import request %s (message %s)\n", event.RequestID, id)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamCitiesImported, lastID},
			Count:   10,
			Block:   5 * time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			log.Fatalf("Failed to read results: %v", err)
		}

		for _, msg := range streams[0].Messages {
			lastID = msg.ID
			raw, _ := msg.Values["data"].(string)

			var completed domain.ImportCompletedEvent
			if err := json.Unmarshal([]byte(raw), &completed); err != nil {
				continue
			}
			if completed.RequestID == nil || *completed.RequestID != event.RequestID {
				continue
			}

			if completed.Error != "" {
				log.Fatalf("Import failed: %s", completed.Error)
			}
			fmt.Printf("Imported %d cities (%d rows, %d skipped) into %s in %dms\n",
				completed.Cities, completed.Rows, completed.Skipped, completed.Table, completed.DurationMs)
			return
		}
	}

	log.Fatalf("No completion event within %s", *wait)
}
