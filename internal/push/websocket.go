package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a control message to the relay
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the relay
	pongWait = 60 * time.Second

	// Send pings to the relay with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512 * 1024
)

// Frame is the event envelope exchanged with the websocket relay.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

const subscribeEvent = "subscribe"

type WebSocketConfig struct {
	URL         string
	ChannelName string
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
}

// WebSocketTransport subscribes to one named channel on a websocket relay
// and redials with exponential backoff when the connection drops.
type WebSocketTransport struct {
	cfg    WebSocketConfig
	dialer *websocket.Dialer
	log    *zap.Logger
}

func NewWebSocketTransport(cfg WebSocketConfig, log *zap.Logger) *WebSocketTransport {
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = 30 * time.Second
	}

	return &WebSocketTransport{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		log: log.With(zap.String("transport", "websocket"), zap.String("url", cfg.URL)),
	}
}

func (t *WebSocketTransport) Run(ctx context.Context, deliver func(Notification), notify func(State)) error {
	backoff := t.cfg.MinBackoff
	for {
		notify(StateConnecting)
		connected, err := t.session(ctx, deliver, notify)
		notify(StateDisconnected)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = t.cfg.MinBackoff
		}

		t.log.Warn("Relay connection lost, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > t.cfg.MaxBackoff {
			backoff = t.cfg.MaxBackoff
		}
	}
}

// session runs one connection until it fails or ctx is cancelled.
func (t *WebSocketTransport) session(ctx context.Context, deliver func(Notification), notify func(State)) (bool, error) {
	conn, _, err := t.dialer.DialContext(ctx, t.cfg.URL, nil)
	if err != nil {
		return false, fmt.Errorf("dial relay: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		conn.Close()
	})
	defer stop()

	topic, _ := json.Marshal(t.cfg.ChannelName)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(Frame{Event: subscribeEvent, Data: topic}); err != nil {
		return false, fmt.Errorf("subscribe to %s: %w", t.cfg.ChannelName, err)
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	notify(StateConnected)
	t.log.Info("Subscribed to relay channel", zap.String("channel", t.cfg.ChannelName))

	done := make(chan struct{})
	defer close(done)
	go t.pingLoop(conn, done)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			t.log.Error("Failed to parse relay frame", zap.Error(err))
			continue
		}
		if frame.Event != t.cfg.ChannelName {
			t.log.Debug("Ignoring relay frame", zap.String("event", frame.Event))
			continue
		}

		var n Notification
		if err := json.Unmarshal(frame.Data, &n); err != nil {
			t.log.Error("Failed to parse relay notification", zap.Error(err))
			continue
		}
		deliver(n)
	}
}

func (t *WebSocketTransport) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
