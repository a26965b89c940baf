package events

import (
	"context"
	"fmt"

	rediscommon "healthsync/common/redis"
)

// DefaultStreamMaxLen caps the activity stream
const DefaultStreamMaxLen = 10000

// RedisStreamPublisher XADDs events to a Redis stream
type RedisStreamPublisher struct {
	client *rediscommon.Client
	stream string
	maxLen int64
}

func NewRedisStreamPublisher(client *rediscommon.Client, stream string, maxLen int64) *RedisStreamPublisher {
	if maxLen <= 0 {
		maxLen = DefaultStreamMaxLen
	}
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := e.payload()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = rediscommon.PublishToStream(ctx, p.client, p.stream, p.maxLen, map[string]interface{}{
		"type":      e.Type,
		"subjectId": e.SubjectID,
		"data":      payload,
	})
	return err
}

// Close leaves the client open; it is shared with the KV backend.
func (p *RedisStreamPublisher) Close() error { return nil }
