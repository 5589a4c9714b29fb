package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("studyhub/internal/kv")

// Redis is a Store backed by a Redis server. It is the shared substrate that
// lets multiple processes observe one logical dataset.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(addr, password string, db int, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// NewRedisWithClient wraps an existing client; used by tests.
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

var _ Store = (*Redis)(nil)

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	ctx, span := tracer.Start(ctx, "kv.get",
		trace.WithAttributes(attribute.String("kv.key", key)),
	)
	defer span.End()

	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoKey
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value string) error {
	ctx, span := tracer.Start(ctx, "kv.set",
		trace.WithAttributes(
			attribute.String("kv.key", key),
			attribute.Int("kv.value_bytes", len(value)),
		),
	)
	defer span.End()

	// Collections accumulate indefinitely, so values never expire.
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
