package seatmap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"seatmap-client/internal/data/entity"
	"seatmap-client/internal/dto/request"
	"seatmap-client/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrSeatNotAvailable = errors.New("seat is not available")
	ErrSeatNotHeld      = errors.New("seat is not locked by this guest")
)

// SeatLocker is the booking service side of lock commands.
type SeatLocker interface {
	LockSeat(ctx context.Context, req request.LockSeatRequest) error
	UnlockSeat(ctx context.Context, req request.UnlockSeatRequest) error
}

type SeatLister interface {
	SeatsLockedBy(guestID string) []entity.Seat
}

// SeatListerFunc adapts a function to SeatLister.
type SeatListerFunc func(guestID string) []entity.Seat

func (f SeatListerFunc) SeatsLockedBy(guestID string) []entity.Seat {
	return f(guestID)
}

// Dispatcher issues lock and unlock commands for one (event, venue). It never
// changes local seat state: the result of a command is only observed when
// the relay broadcasts it.
type Dispatcher struct {
	locker  SeatLocker
	eventID int64
	venueID int64
	log     *zap.Logger
}

func NewDispatcher(locker SeatLocker, eventID, venueID int64, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		locker:  locker,
		eventID: eventID,
		venueID: venueID,
		log: log.With(
			zap.String("component", "dispatcher"),
			zap.Int64("event_id", eventID),
			zap.Int64("venue_id", venueID),
		),
	}
}

// RequestLock asks for seat on behalf of guestID. The seat must be AVAILABLE.
func (d *Dispatcher) RequestLock(ctx context.Context, seat entity.Seat, guestID string) error {
	if seat.StatusID != entity.SeatStatusAvailable {
		return fmt.Errorf("lock %s: %w", seat.Key(), ErrSeatNotAvailable)
	}

	req := request.LockSeatRequest{
		EventID:    d.eventID,
		VenueID:    d.venueID,
		RowNumber:  seat.RowNumber,
		SeatNumber: seat.SeatNumber,
		GuestID:    guestID,
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return fmt.Errorf("invalid lock request: %s", utils.FormatValidationErrors(errs))
	}

	if err := d.locker.LockSeat(ctx, req); err != nil {
		d.log.Warn("Lock request failed", zap.Error(err), zap.Stringer("seat", seat.Key()))
		return err
	}

	d.log.Debug("Lock request sent", zap.Stringer("seat", seat.Key()), zap.String("guest_id", guestID))
	return nil
}

// RequestUnlock releases seat. The seat must be LOCKED by guestID.
func (d *Dispatcher) RequestUnlock(ctx context.Context, seat entity.Seat, guestID string) error {
	if !seat.LockedBy(guestID) {
		return fmt.Errorf("unlock %s: %w", seat.Key(), ErrSeatNotHeld)
	}

	if err := d.unlock(ctx, seat); err != nil {
		d.log.Warn("Unlock request failed", zap.Error(err), zap.Stringer("seat", seat.Key()))
		return err
	}

	d.log.Debug("Unlock request sent", zap.Stringer("seat", seat.Key()))
	return nil
}

// ReleaseAllHeldByMe unlocks every seat seats reports as locked by guestID.
func (d *Dispatcher) ReleaseAllHeldByMe(ctx context.Context, seats SeatLister, guestID string) error {
	if guestID == "" {
		return nil
	}
	return d.ReleaseSeats(ctx, seats.SeatsLockedBy(guestID))
}

// ReleaseSeats sends one unlock per seat, concurrently, and joins the failures.
func (d *Dispatcher) ReleaseSeats(ctx context.Context, seats []entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, seat := range seats {
		wg.Add(1)
		go func(seat entity.Seat) {
			defer wg.Done()
			if err := d.unlock(ctx, seat); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(seat)
	}
	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		d.log.Error("Failed to release seats", zap.Error(err), zap.Int("failed", len(errs)), zap.Int("total", len(seats)))
	} else {
		d.log.Info("Released held seats", zap.Int("count", len(seats)))
	}
	return err
}

func (d *Dispatcher) unlock(ctx context.Context, seat entity.Seat) error {
	return d.locker.UnlockSeat(ctx, request.UnlockSeatRequest{
		EventID:    d.eventID,
		VenueID:    d.venueID,
		RowNumber:  seat.RowNumber,
		SeatNumber: seat.SeatNumber,
	})
}
