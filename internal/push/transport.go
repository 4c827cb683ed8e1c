package push

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	TransportWebSocket = "websocket"
	TransportRedis     = "redis"
	TransportNATS      = "nats"
)

type Config struct {
	Transport      string
	URL            string
	ChannelName    string
	MessagePattern string
	NatsURL        string
	ClientName     string
}

// NewTransport builds the transport selected by cfg.Transport. The redis
// client is only required for the redis transport.
func NewTransport(cfg Config, redisClient *redis.Client, log *zap.Logger) (Transport, error) {
	switch cfg.Transport {
	case TransportWebSocket, "":
		return NewWebSocketTransport(WebSocketConfig{
			URL:         cfg.URL,
			ChannelName: cfg.ChannelName,
		}, log), nil
	case TransportRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("push transport %s: redis client not configured", cfg.Transport)
		}
		return NewRedisTransport(redisClient, cfg.MessagePattern, log), nil
	case TransportNATS:
		return NewNATSTransport(cfg.NatsURL, cfg.ChannelName, cfg.ClientName, log), nil
	default:
		return nil, fmt.Errorf("unknown push transport %q", cfg.Transport)
	}
}
