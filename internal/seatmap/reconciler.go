// Package seatmap holds the client side seat state of one (event, venue)
// view: the roster, its merge rules, the lock commands issued from it and
// the render-ready projection derived from it.
package seatmap

import (
	"cmp"
	"slices"
	"strconv"

	"seatmap-client/internal/data/entity"

	"go.uber.org/zap"
)

// Row is one row of the roster in display order.
type Row struct {
	Label string
	Seats []entity.Seat
}

// Reconciler owns the seat collection of one view. The roster is fixed by
// Initialize; afterwards seats are only overwritten in place by remote
// updates. It is not safe for concurrent use.
type Reconciler struct {
	seats []entity.Seat
	index map[entity.SeatKey][]int
	log   *zap.Logger
}

func NewReconciler(log *zap.Logger) *Reconciler {
	return &Reconciler{
		index: make(map[entity.SeatKey][]int),
		log:   log.With(zap.String("component", "reconciler")),
	}
}

// Initialize replaces the whole collection with seats.
func (r *Reconciler) Initialize(seats []entity.Seat) {
	r.seats = make([]entity.Seat, len(seats))
	r.index = make(map[entity.SeatKey][]int, len(seats))

	for i, seat := range seats {
		r.seats[i] = seat.Normalize()
		key := seat.Key()
		if len(r.index[key]) > 0 {
			r.log.Warn("Duplicate seat in roster", zap.Stringer("seat", key))
		}
		r.index[key] = append(r.index[key], i)
	}
}

// ApplyRemoteUpdate overwrites the status and guest of the seat with the
// same key. It reports whether anything changed. Unknown seats and updates
// that would move a seat out of BOOKED are ignored.
func (r *Reconciler) ApplyRemoteUpdate(update entity.Seat) bool {
	key := update.Key()
	positions, ok := r.index[key]
	if !ok {
		r.log.Warn("Update for seat not in roster", zap.Stringer("seat", key))
		return false
	}

	update = update.Normalize()
	changed := false
	for _, i := range positions {
		current := r.seats[i]
		if current.StatusID == entity.SeatStatusBooked && update.StatusID != entity.SeatStatusBooked {
			r.log.Warn("Ignoring update for booked seat",
				zap.Stringer("seat", key),
				zap.Stringer("status", update.StatusID),
			)
			continue
		}

		current.StatusID = update.StatusID
		current.GuestID = update.GuestID
		if current != r.seats[i] {
			r.seats[i] = current
			changed = true
		}
	}

	return changed
}

// Seat returns the seat stored under key.
func (r *Reconciler) Seat(key entity.SeatKey) (entity.Seat, bool) {
	positions, ok := r.index[key]
	if !ok {
		return entity.Seat{}, false
	}
	return r.seats[positions[0]], true
}

// GroupByRow groups the roster by row. Rows keep the order in which they
// first appear; seats inside a row are sorted by seat number, numerically.
func (r *Reconciler) GroupByRow() []Row {
	var rows []Row
	position := make(map[string]int)

	for _, seat := range r.seats {
		i, ok := position[seat.RowNumber]
		if !ok {
			i = len(rows)
			position[seat.RowNumber] = i
			rows = append(rows, Row{Label: seat.RowNumber})
		}
		rows[i].Seats = append(rows[i].Seats, seat)
	}

	for i := range rows {
		slices.SortStableFunc(rows[i].Seats, func(a, b entity.Seat) int {
			return compareSeatNumbers(a.SeatNumber, b.SeatNumber)
		})
	}

	return rows
}

// SeatsLockedBy returns the seats LOCKED by guestID in roster order.
func (r *Reconciler) SeatsLockedBy(guestID string) []entity.Seat {
	var held []entity.Seat
	for _, seat := range r.seats {
		if seat.LockedBy(guestID) {
			held = append(held, seat)
		}
	}
	return held
}

func (r *Reconciler) Len() int {
	return len(r.seats)
}

// Snapshot returns a copy of the roster.
func (r *Reconciler) Snapshot() []entity.Seat {
	return slices.Clone(r.seats)
}

// compareSeatNumbers orders numeric seat numbers by value and puts any
// non-numeric ones after them.
func compareSeatNumbers(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)

	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
