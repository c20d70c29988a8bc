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
)

type ActivityRecordedEvent struct {
	SiteID     uuid.UUID  `json:"site_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Type       string     `json:"type"`
	Lat        *float64   `json:"lat,omitempty"`
	Lon        *float64   `json:"lon,omitempty"`
	RecordedAt time.Time  `json:"recorded_at"`
}

func ptr[T any](v T) *T {
	return &v
}

func main() {
	redisAddr := flag.String("redis", "localhost:6380", "Redis address for streams")
	siteID := flag.String("site", "", "Target site UUID (random if empty)")
	activityType := flag.String("type", "visit", "Activity type")
	count := flag.Int("count", 1, "Number of events to publish")
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

	target := uuid.New()
	if *siteID != "" {
		parsed, err := uuid.Parse(*siteID)
		if err != nil {
			log.Fatalf("Invalid site id: %v", err)
		}
		target = parsed
	}

	userID := uuid.New()

	for i := 0; i < *count; i++ {
		// Тестовое событие (Plaza Mayor, Madrid)
		event := ActivityRecordedEvent{
			SiteID:     target,
			UserID:     &userID,
			Type:       *activityType,
			Lat:        ptr(40.4155),
			Lon:        ptr(-3.7074),
			RecordedAt: time.Now().UTC(),
		}

		data, err := json.Marshal(event)
		if err != nil {
			log.Fatalf("Failed to marshal event: %v", err)
		}

		// Публикация в стрим
		result, err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: "stream:activity:recorded",
			Values: map[string]interface{}{
				"data": string(data),
			},
		}).Result()
		if err != nil {
			log.Fatalf("Failed to publish event: %v", err)
		}

		fmt.Printf("✅ Event published successfully!\n")
		fmt.Printf("   Stream: stream:activity:recorded\n")
		fmt.Printf("   Message ID: %s\n", result)
		fmt.Printf("   Site ID: %s\n", event.SiteID)
		fmt.Printf("   Type: %s\n", event.Type)
	}

	fmt.Printf("\n⏳ Check worker logs, then GET /api/v1/sites/%s/statistics\n", target)
}
