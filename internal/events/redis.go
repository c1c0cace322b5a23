package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

const publishTimeout = 2 * time.Second

// RedisSink publishes events as JSON envelopes on a Redis pub/sub channel.
// Dashboard processes subscribe to the channel for live updates.
type RedisSink struct {
	client  *redis.Client
	channel string
	logger  *logging.Logger
}

// NewRedisSink creates a Redis-backed sink.
func NewRedisSink(client *redis.Client, channel string, logger *logging.Logger) *RedisSink {
	if logger == nil {
		logger = logging.Default()
	}
	if channel == "" {
		channel = "outreach:events"
	}
	return &RedisSink{client: client, channel: channel, logger: logger}
}

func (s *RedisSink) Emit(event string, payload any) {
	body, err := json.Marshal(envelope(event, payload))
	if err != nil {
		s.logger.Error("events: marshal failed", "event", event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.client.Publish(ctx, s.channel, body).Err(); err != nil {
		s.logger.Warn("events: redis publish failed", "event", event, "error", err)
	}
}
