package seatmap_test

import (
	"context"
	"sync"
	"sync/atomic"

	"seatmap-client/internal/data/entity"
	"seatmap-client/internal/dto/request"
	"seatmap-client/internal/push"
)

type fakeCatalog struct {
	mu    sync.Mutex
	seats []entity.Seat
	err   error
	calls int
}

func (f *fakeCatalog) FetchSeats(_ context.Context, _, _ int64) ([]entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.Seat(nil), f.seats...), nil
}

func (f *fakeCatalog) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeLocker struct {
	mu        sync.Mutex
	locks     []request.LockSeatRequest
	unlocks   []request.UnlockSeatRequest
	lockErr   error
	unlockErr error
}

func (f *fakeLocker) LockSeat(_ context.Context, req request.LockSeatRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks = append(f.locks, req)
	return f.lockErr
}

func (f *fakeLocker) UnlockSeat(_ context.Context, req request.UnlockSeatRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlocks = append(f.unlocks, req)
	return f.unlockErr
}

func (f *fakeLocker) unlockedSeats() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for _, u := range f.unlocks {
		keys = append(keys, u.RowNumber+u.SeatNumber)
	}
	return keys
}

type fakeChannel struct {
	mu           sync.Mutex
	handlers     map[int]push.Handler
	next         int
	unsubscribed int
	connected    atomic.Bool
}

func newFakeChannel() *fakeChannel {
	c := &fakeChannel{handlers: make(map[int]push.Handler)}
	c.connected.Store(true)
	return c
}

func (c *fakeChannel) Subscribe(h push.Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	id := c.next
	c.handlers[id] = h
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers, id)
		c.unsubscribed++
	}
}

func (c *fakeChannel) IsConnected() bool {
	return c.connected.Load()
}

func (c *fakeChannel) publish(n push.Notification) {
	c.mu.Lock()
	handlers := make([]push.Handler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(n)
	}
}

func (c *fakeChannel) subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers)
}

func seat(row, number string, status entity.SeatStatus, guestID string) entity.Seat {
	return entity.Seat{RowNumber: row, SeatNumber: number, StatusID: status, GuestID: guestID}
}

func key(row, number string) entity.SeatKey {
	return entity.SeatKey{RowNumber: row, SeatNumber: number}
}
