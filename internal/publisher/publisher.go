// Package publisher fans cycle events out to other processes.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SignalSentinel/internal/model"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Publisher delivers cycle events.
type Publisher interface {
	Publish(ctx context.Context, evt *model.CycleEvent) error
	Close() error
}

// Channel is the Redis channel for a symbol's events.
func Channel(symbol string) string { return "signal:" + symbol }

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisPublisher publishes JSON encoded events with PUBLISH.
type RedisPublisher struct {
	client *goredis.Client
}

// NewRedisPublisher connects and pings the server.
func NewRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Msg("redis publisher connected")
	return &RedisPublisher{client: client}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, evt *model.CycleEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(evt.Symbol), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", Channel(evt.Symbol), err)
	}
	return nil
}

func (p *RedisPublisher) Close() error { return p.client.Close() }

// NoopPublisher drops every event. Used when Redis is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *model.CycleEvent) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }
