package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSTransport subscribes to a subject whose messages are JSON encoded
// Notifications.
type NATSTransport struct {
	url     string
	subject string
	name    string
	log     *zap.Logger
}

func NewNATSTransport(url, subject, name string, log *zap.Logger) *NATSTransport {
	return &NATSTransport{
		url:     url,
		subject: subject,
		name:    name,
		log:     log.With(zap.String("transport", "nats"), zap.String("subject", subject)),
	}
}

func (t *NATSTransport) Run(ctx context.Context, deliver func(Notification), notify func(State)) error {
	notify(StateConnecting)

	opts := []nats.Option{
		nats.Name(t.name),
		nats.MaxReconnects(-1), // Infinite reconnects
		nats.ReconnectWait(2 * time.Second),
		nats.RetryOnFailedConnect(true),
		nats.ConnectHandler(func(nc *nats.Conn) {
			t.log.Info("Connected", zap.String("server", nc.ConnectedUrl()))
			notify(StateConnected)
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			t.log.Warn("Disconnected", zap.Error(err))
			notify(StateDisconnected)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			t.log.Info("Reconnected", zap.String("server", nc.ConnectedUrl()))
			notify(StateConnected)
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			t.log.Error("NATS error", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(t.url, opts...)
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}
	defer nc.Close()

	if nc.IsConnected() {
		notify(StateConnected)
	}

	sub, err := nc.Subscribe(t.subject, func(msg *nats.Msg) {
		var n Notification
		if err := json.Unmarshal(msg.Data, &n); err != nil {
			t.log.Error("Failed to parse relay notification", zap.Error(err))
			return
		}
		deliver(n)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", t.subject, err)
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	return ctx.Err()
}
