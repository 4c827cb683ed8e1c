package push

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisIdleTimeout = 30 * time.Second
	redisRetryWait   = 2 * time.Second
)

// RedisTransport pattern-subscribes directly to the relay's redis. Each
// pmessage already carries the channel, pattern and payload of a Notification.
type RedisTransport struct {
	client  *redis.Client
	pattern string
	log     *zap.Logger
}

func NewRedisTransport(client *redis.Client, pattern string, log *zap.Logger) *RedisTransport {
	return &RedisTransport{
		client:  client,
		pattern: pattern,
		log:     log.With(zap.String("transport", "redis"), zap.String("pattern", pattern)),
	}
}

func (t *RedisTransport) Run(ctx context.Context, deliver func(Notification), notify func(State)) error {
	notify(StateConnecting)
	pubsub := t.client.PSubscribe(ctx, t.pattern)
	defer pubsub.Close()

	for {
		msg, err := pubsub.ReceiveTimeout(ctx, redisIdleTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				if pingErr := pubsub.Ping(ctx); pingErr == nil {
					continue
				}
			}

			notify(StateDisconnected)
			t.log.Warn("Redis subscription interrupted", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(redisRetryWait):
			}
			notify(StateConnecting)
			continue
		}

		switch m := msg.(type) {
		case *redis.Subscription:
			notify(StateConnected)
			t.log.Info("Subscribed to relay pattern", zap.Int("count", m.Count))
		case *redis.Message:
			notify(StateConnected)
			deliver(Notification{Channel: m.Channel, Pattern: m.Pattern, Message: m.Payload})
		case *redis.Pong:
			notify(StateConnected)
		}
	}
}
