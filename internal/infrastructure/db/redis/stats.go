package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pagefeed/social-system/internal/core/domain"
)

// StatsPublisher delivers engine events to the external stats
// aggregator over a Redis pub/sub channel. The payload schema is
// stable: {entity, id, action, page_id, actor_id, timestamp}.
type StatsPublisher struct {
	client  *redis.Client
	channel string
}

// NewStatsPublisher creates a StatsPublisher on the given channel.
// An empty channel defaults to "stats".
func NewStatsPublisher(client *redis.Client, channel string) *StatsPublisher {
	if channel == "" {
		channel = "stats"
	}
	return &StatsPublisher{client: client, channel: channel}
}

// Publish sends one event, best effort.
func (p *StatsPublisher) Publish(ctx context.Context, e domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("stats marshal: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("stats publish: %w", err)
	}
	return nil
}
