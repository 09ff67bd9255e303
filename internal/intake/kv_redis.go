package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisKV stores values in Redis with a sliding TTL.
type RedisKV struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisKV wraps a Redis client. A zero ttl keeps keys forever.
func NewRedisKV(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisKV {
	if client == nil {
		panic("intake: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("atomnext.internal.intake.kv")
	}
	return &RedisKV{redis: client, ttl: ttl, tracer: tracer}
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "intake.kv.get")
	defer span.End()

	value, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		span.RecordError(err)
		return "", fmt.Errorf("intake: redis get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisKV) Set(ctx context.Context, key, value string) error {
	ctx, span := s.tracer.Start(ctx, "intake.kv.set")
	defer span.End()

	if err := s.redis.Set(ctx, key, value, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Remove(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "intake.kv.remove")
	defer span.End()

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: redis del %s: %w", key, err)
	}
	return nil
}

var _ KeyValue = (*RedisKV)(nil)
