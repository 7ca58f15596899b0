package bus

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/lumawake/lumawake-backend/internal/platform/envutil"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/realtime"
	"github.com/lumawake/lumawake-backend/internal/sse"
)

const busChannel = "lumawake.realtime"

// Bus carries realtime messages between processes. Every publication also
// lands on the local hub so single-node deploys work without redis.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	Close() error
}

// LocalBus delivers straight to the in-process hub.
type LocalBus struct {
	hub *sse.Hub
}

func NewLocalBus(hub *sse.Hub) *LocalBus {
	return &LocalBus{hub: hub}
}

func (b *LocalBus) Publish(_ context.Context, msg realtime.SSEMessage) error {
	b.hub.Publish(msg)
	return nil
}

func (b *LocalBus) Close() error { return nil }

// RedisBus mirrors publications over redis pub/sub so adjustments computed on
// one node reach clients streaming from another.
type RedisBus struct {
	client *redis.Client
	hub    *sse.Hub
	log    *logger.Logger
	cancel context.CancelFunc
}

func NewRedisBus(hub *sse.Hub, baseLog *logger.Logger) (*RedisBus, error) {
	opts := &redis.Options{
		Addr:     envutil.Str("REDIS_ADDR", "localhost:6379"),
		Password: envutil.Str("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBus{
		client: client,
		hub:    hub,
		log:    baseLog.With("component", "redis_bus"),
		cancel: cancel,
	}
	go b.forward(ctx)
	return b, nil
}

func (b *RedisBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, busChannel, payload).Err()
}

func (b *RedisBus) forward(ctx context.Context) {
	sub := b.client.Subscribe(ctx, busChannel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-ch:
			if !ok {
				return
			}
			var msg realtime.SSEMessage
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				b.log.Warn("dropping malformed bus message", "error", err)
				continue
			}
			b.hub.Publish(msg)
		}
	}
}

func (b *RedisBus) Close() error {
	b.cancel()
	return b.client.Close()
}
