// Package fanout publishes RealtimeVisionEvent records to a Redis
// Stream for remote UI subscribers, adapting the teacher's
// storage.RedisClient/PublishEvent from an activity-log sink into a
// dedicated vision-event publisher (spec §6).
package fanout

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vel5id/vigil/internal/model"
)

// streamMaxLen caps the Redis Stream at an approximate length so a
// slow or absent subscriber cannot grow it without bound — the same
// MaxLen/Approx discipline the teacher applies to its activity stream.
const streamMaxLen = 5000

// Publisher publishes RealtimeVisionEvent records onto a Redis Stream.
type Publisher struct {
	client *redis.Client
	stream string
}

// NewPublisher connects to addr and verifies connectivity before
// returning, mirroring the teacher's NewRedisClient ping-on-construct
// behavior.
func NewPublisher(addr, password string, db int, stream string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Publisher{client: client, stream: stream}, nil
}

// Publish XADDs event onto the configured stream.
func (p *Publisher) Publish(ctx context.Context, event model.RealtimeVisionEvent) error {
	values, err := flatten(event)
	if err != nil {
		return fmt.Errorf("flatten realtime event: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
		MaxLen: streamMaxLen,
		Approx: true,
	}).Err()
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// flatten converts event into the field map XAdd expects. Only the
// Ocr branch is populated by this pipeline; a UI branch is carried
// through verbatim for forward compatibility with the external
// UI-monitoring collaborator's events.
func flatten(event model.RealtimeVisionEvent) (map[string]interface{}, error) {
	switch event.Kind {
	case model.RealtimeEventOcr:
		if event.Ocr == nil {
			return nil, fmt.Errorf("ocr event with nil payload")
		}
		values := map[string]interface{}{
			"kind":        "ocr",
			"window_name": event.Ocr.WindowName,
			"app_name":    event.Ocr.AppName,
			"text":        event.Ocr.Text,
			"focused":     event.Ocr.Focused,
			"confidence":  event.Ocr.Confidence,
			"timestamp":   model.EncodeTimestamp(event.Ocr.Timestamp),
		}
		if len(event.Ocr.Image) > 0 {
			values["image"] = base64.StdEncoding.EncodeToString(event.Ocr.Image)
		}
		if event.Ocr.BrowserURL != nil {
			values["browser_url"] = *event.Ocr.BrowserURL
		}
		return values, nil
	case model.RealtimeEventUI:
		if event.UI == nil {
			return nil, fmt.Errorf("ui event with nil payload")
		}
		return map[string]interface{}{
			"kind":                 "ui",
			"window":               event.UI.Window,
			"app":                  event.UI.App,
			"text_output":          event.UI.TextOutput,
			"initial_traversal_at": event.UI.InitialTraversalAt,
		}, nil
	default:
		return nil, fmt.Errorf("unknown realtime event kind %v", event.Kind)
	}
}
