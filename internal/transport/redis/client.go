package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// Publisher sends session events to a Redis pub/sub channel.
type Publisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
}

func New(ctx context.Context, logger *slog.Logger, addr, channel string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(logger, client, channel), nil
}

// NewWithClient wraps an already connected client.
func NewWithClient(logger *slog.Logger, client *redis.Client, channel string) *Publisher {
	return &Publisher{
		logger:  logger.With("component", "redis_publisher"),
		client:  client,
		channel: channel,
	}
}

// Publish - marshals the event and publishes it on the channel.
func (that *Publisher) Publish(ctx context.Context, event entity.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event in Redis: %w", err)
	}

	return nil
}

// Notify publishes the event and logs a failure instead of returning it.
func (that *Publisher) Notify(ctx context.Context, event entity.Event) {
	if err := that.Publish(ctx, event); err != nil {
		that.logger.Error("could not publish event", "type", event.Type, "session_id", event.SessionID, "error", err)
	}
}

func (that *Publisher) Close() error {
	if err := that.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	return nil
}
