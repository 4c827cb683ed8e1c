package seatmap

import (
	"context"
	"slices"
	"sync"

	"seatmap-client/internal/data/entity"
	"seatmap-client/internal/dto/response"

	"go.uber.org/zap"
)

// OrderSummary is the session that follows a seat map once the guest
// proceeds to order. It holds the carried seats and releases them on
// teardown, behind its own teardown guard.
type OrderSummary struct {
	id         string
	event      entity.EventCard
	guestID    string
	seats      []entity.Seat
	dispatcher *Dispatcher
	guard      *TeardownGuard
	log        *zap.Logger

	mu       sync.Mutex
	released bool
}

func NewOrderSummary(id string, event entity.EventCard, guestID string, seats []entity.Seat,
	dispatcher *Dispatcher, releaseOnFirstTeardown bool, log *zap.Logger) *OrderSummary {
	return &OrderSummary{
		id:         id,
		event:      event,
		guestID:    guestID,
		seats:      slices.Clone(seats),
		dispatcher: dispatcher,
		guard:      NewTeardownGuard(releaseOnFirstTeardown),
		log:        log.With(zap.String("component", "order"), zap.String("order_id", id)),
	}
}

func (o *OrderSummary) ID() string {
	return o.id
}

func (o *OrderSummary) Projection() response.OrderSummaryView {
	return response.OrderSummaryView{
		OrderID: o.id,
		Event:   o.event,
		GuestID: o.guestID,
		Seats:   slices.Clone(o.seats),
	}
}

// Close unlocks every carried seat once the teardown guard allows it.
func (o *OrderSummary) Close(ctx context.Context) (released bool, err error) {
	if !o.guard.Fire() {
		o.log.Info("Teardown guard armed, seats not released")
		return false, nil
	}

	o.mu.Lock()
	if o.released {
		o.mu.Unlock()
		return true, nil
	}
	o.released = true
	o.mu.Unlock()

	return true, o.dispatcher.ReleaseSeats(ctx, o.seats)
}
