package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisStorageRepository struct {
	client *redis.Client
	origin string
	log    *zap.Logger
}

func NewRedisStorageRepository(client *redis.Client, origin string, log *zap.Logger) StorageRepository {
	return &redisStorageRepository{
		client: client,
		origin: origin,
		log:    log.With(zap.String("repository", "storage"), zap.String("driver", "redis")),
	}
}

// storageKey namespaces key under the origin, e.g. "storage:seatmap-client:guestId".
func (r *redisStorageRepository) storageKey(key string) string {
	return fmt.Sprintf("storage:%s:%s", r.origin, key)
}

func (r *redisStorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.storageKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.log.Error("Failed to read key", zap.Error(err), zap.String("key", key))
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return value, true, nil
}

func (r *redisStorageRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.storageKey(key), value, 0).Err(); err != nil {
		r.log.Error("Failed to write key", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

func (r *redisStorageRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.storageKey(key)).Err(); err != nil {
		r.log.Error("Failed to delete key", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}
