package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis relays change notifications across processes through a pub/sub
// channel. Local subscribers are notified synchronously on Publish; remote
// processes receive the same key through Redis. Messages are tagged with an
// origin id so a process never double-delivers its own writes.
type Redis struct {
	local   *Memory
	client  *redis.Client
	channel string
	origin  string
	log     *zap.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRedis starts the relay. The background receive loop runs until Close.
func NewRedis(client *redis.Client, channel string, log *zap.Logger) *Redis {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Redis{
		local:   NewMemory(),
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		log:     log,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go b.receive(ctx)
	return b
}

var _ Bus = (*Redis)(nil)

func (b *Redis) Publish(ctx context.Context, key string) error {
	// Same-process observers first; their delivery never depends on the
	// network round trip.
	_ = b.local.Publish(ctx, key)

	payload := b.origin + "|" + key
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change %s: %w", key, err)
	}
	return nil
}

func (b *Redis) Subscribe() (<-chan Change, func()) {
	return b.local.Subscribe()
}

func (b *Redis) Close() error {
	b.cancel()
	<-b.done
	return b.local.Close()
}

func (b *Redis) receive(ctx context.Context) {
	defer close(b.done)

	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			origin, key, found := strings.Cut(msg.Payload, "|")
			if !found {
				b.log.Warn("malformed change notification", zap.String("payload", msg.Payload))
				continue
			}
			if origin == b.origin {
				continue
			}
			_ = b.local.Publish(ctx, key)
		}
	}
}
