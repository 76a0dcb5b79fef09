package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultRedisChannel is the pub/sub channel instances share events on.
const DefaultRedisChannel = "clubhub:events"

// RedisBridge relays events through a Redis pub/sub channel so every
// instance's Hub sees every instance's events. Local events reach the
// local Hub by the same route, once they come back from Redis.
type RedisBridge struct {
	rdb     *redis.Client
	channel string
	local   *Hub
	log     *zap.Logger

	outbound chan Event
}

func NewRedisBridge(rdb *redis.Client, channel string, local *Hub, log *zap.Logger) *RedisBridge {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBridge{
		rdb:      rdb,
		channel:  channel,
		local:    local,
		log:      log,
		outbound: make(chan Event, broadcastBuffer),
	}
}

// Publish queues e for Redis. Like Hub.Publish it never blocks.
func (b *RedisBridge) Publish(e Event) {
	select {
	case b.outbound <- e:
	default:
		b.log.Warn("redis queue full, dropping event", zap.String("type", e.Type))
	}
}

// Run publishes queued events and relays subscribed ones into the local
// Hub until ctx is done or the subscription fails.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// Wait for the subscription so events published right after start are
	// not missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.log.Info("redis bridge subscribed", zap.String("channel", b.channel))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e := <-b.outbound:
				data, err := json.Marshal(e)
				if err != nil {
					b.log.Error("marshal event", zap.String("type", e.Type), zap.Error(err))
					continue
				}
				if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					b.log.Warn("redis publish failed", zap.String("type", e.Type), zap.Error(err))
				}
			}
		}
	})
	g.Go(func() error {
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-msgs:
				if !ok {
					return fmt.Errorf("redis subscription %s closed", b.channel)
				}
				b.relay(msg.Payload)
			}
		}
	})
	return g.Wait()
}

// relay decodes one pub/sub payload and hands it to the local Hub.
func (b *RedisBridge) relay(payload string) {
	var e Event
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		b.log.Warn("discarding malformed event", zap.Error(err))
		return
	}
	b.local.Publish(e)
}
