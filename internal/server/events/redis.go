package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/eatery/internal/logging"
	"github.com/redis/go-redis/v9"
)

// StreamAdder is the part of the Redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisPublisher appends events to a Redis stream with XADD.
type RedisPublisher struct {
	client  StreamAdder
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  logging.Logger
	now     func() time.Time
}

// NewRedisPublisher publishes to stream. When maxLen is positive the stream
// is trimmed to roughly that many entries.
func NewRedisPublisher(client StreamAdder, stream string, maxLen int64, logger logging.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		stream:  stream,
		maxLen:  maxLen,
		timeout: 3 * time.Second,
		logger:  logger.With("module", "events"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, data any) {
	if err := p.publish(ctx, eventType, data); err != nil {
		p.logger.Error(ctx, "failed to publish event", "type", eventType, "stream", p.stream, "error", err)
	}
}

func (p *RedisPublisher) publish(ctx context.Context, eventType string, data any) error {
	event := Event{
		Type:      eventType,
		Timestamp: p.now(),
		Data:      data,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":  eventType,
			"event": eventJSON,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	// the caller's request may already be finished
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}
