package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glizzus/traytimer/internal/schedule"
)

// RedisStreamSink appends every delivery to a Redis stream, so other
// processes can react to fired reminders.
type RedisStreamSink struct {
	client    redis.Cmdable
	stream    string
	sessionID string
	maxLen    int64
}

func NewRedisStreamSink(client redis.Cmdable, stream, sessionID string) *RedisStreamSink {
	return &RedisStreamSink{
		client:    client,
		stream:    stream,
		sessionID: sessionID,
	}
}

// WithMaxLen trims the stream to roughly n entries on every append.
func (s *RedisStreamSink) WithMaxLen(n int64) *RedisStreamSink {
	s.maxLen = n
	return s
}

func (s *RedisStreamSink) Deliver(ctx context.Context, d schedule.Delivery) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: s.maxLen > 0,
		Values: map[string]any{
			"sessionID": s.sessionID,
			"id":        strconv.FormatUint(uint64(d.ID), 10),
			"title":     d.Title,
			"body":      d.Body,
			"icon":      iconOf(d),
			"fireAt":    d.FireAt.Format(time.RFC3339),
			"overdue":   strconv.FormatBool(d.Overdue),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to add notification %d to stream %s: %w", d.ID, s.stream, err)
	}
	return nil
}

var _ Sink = (*RedisStreamSink)(nil)
