package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/elitefitness/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.redis.get")
	span.SetAttributes(attribute.String("key", key))
	defer tracing.EndSpanWithErrCheck(span, &err)

	value, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.redis.set")
	span.SetAttributes(attribute.String("key", key), attribute.Int("size", len(value)))
	defer tracing.EndSpanWithErrCheck(span, &err)

	if err := s.redisClient.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.redis.delete")
	span.SetAttributes(attribute.String("key", key))
	defer tracing.EndSpanWithErrCheck(span, &err)

	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
