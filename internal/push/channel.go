package push

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

type Handler func(Notification)

// Channel is the one relay subscription shared by every open seat map.
// The first Subscribe starts the transport and the last unsubscribe stops
// it. Notifications reach handlers one at a time, in arrival order, on the
// transport goroutine.
type Channel struct {
	transport Transport
	log       *zap.Logger

	mu       sync.Mutex
	handlers map[uint64]Handler
	nextID   uint64
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}

	state atomic.Int32
}

func NewChannel(transport Transport, log *zap.Logger) *Channel {
	return &Channel{
		transport: transport,
		handlers:  make(map[uint64]Handler),
		log:       log.With(zap.String("component", "push")),
	}
}

func (c *Channel) State() State {
	return State(c.state.Load())
}

func (c *Channel) IsConnected() bool {
	return c.State() == StateConnected
}

// Subscribe registers h and returns the function that removes it.
// The returned function must not be called from inside a handler.
func (c *Channel) Subscribe(h Handler) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[id] = h
	if c.cancel == nil {
		c.start()
	}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(id) })
	}
}

// Close stops the transport regardless of remaining subscribers.
func (c *Channel) Close() {
	c.mu.Lock()
	c.handlers = make(map[uint64]Handler)
	done := c.stop()
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (c *Channel) unsubscribe(id uint64) {
	c.mu.Lock()
	delete(c.handlers, id)
	var done chan struct{}
	if len(c.handlers) == 0 {
		done = c.stop()
	}
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// start must be called with mu held.
func (c *Channel) start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.gen++
	gen := c.gen
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	c.state.Store(int32(StateConnecting))
	go func() {
		defer close(done)
		defer c.setState(gen, StateDisconnected)

		err := c.transport.Run(ctx, c.deliver, func(s State) { c.setState(gen, s) })
		if err != nil && !errors.Is(err, context.Canceled) {
			c.log.Error("Push transport stopped", zap.Error(err))
		}
	}()
}

// stop must be called with mu held.
func (c *Channel) stop() chan struct{} {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	done := c.done
	c.cancel = nil
	c.done = nil
	return done
}

func (c *Channel) setState(gen uint64, s State) {
	c.mu.Lock()
	current := c.gen == gen
	c.mu.Unlock()
	if !current {
		return
	}

	prev := State(c.state.Swap(int32(s)))
	if prev != s {
		c.log.Info("Push channel state changed",
			zap.Stringer("from", prev),
			zap.Stringer("to", s),
		)
	}
}

func (c *Channel) deliver(n Notification) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		c.safeCall(h, n)
	}
}

func (c *Channel) safeCall(h Handler, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Push handler panicked",
				zap.Any("panic", r),
				zap.String("channel", n.Channel),
			)
		}
	}()
	h(n)
}
