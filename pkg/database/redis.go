package database

import (
	"context"
	"fmt"
	"time"

	"seatmap-client/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis creates a client and pings it. The client is shared by the redis
// storage driver and the redis push transport.
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	return client, nil
}
