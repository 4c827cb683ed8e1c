package seatmap

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"seatmap-client/internal/data/entity"
	"seatmap-client/internal/dto/response"
	"seatmap-client/internal/push"

	"go.uber.org/zap"
)

var (
	ErrViewClosed       = errors.New("seat map is closed")
	ErrSeatMapNotReady  = errors.New("seat map is not loaded")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrSeatDisabled     = errors.New("seat is disabled")
	ErrNothingToOrder   = errors.New("no seats locked by this guest")
	ErrRetryUnavailable = errors.New("seat map did not fail to load")
)

type LoadState string

const (
	LoadStateLoading LoadState = "loading"
	LoadStateReady   LoadState = "ready"
	LoadStateFailed  LoadState = "failed"
	LoadStateClosed  LoadState = "closed"
)

// SeatCatalog returns the full roster of an (event, venue).
type SeatCatalog interface {
	FetchSeats(ctx context.Context, eventID, venueID int64) ([]entity.Seat, error)
}

// Subscriber is the shared push channel as seen by a view.
type Subscriber interface {
	Subscribe(h push.Handler) (unsubscribe func())
	IsConnected() bool
}

type Config struct {
	EventID                int64
	VenueID                int64
	GuestID                string
	Event                  *entity.EventCard
	ReleaseOnFirstTeardown bool
}

type Deps struct {
	Catalog SeatCatalog
	Locker  SeatLocker
	Channel Subscriber
	Decoder push.Decoder
}

type Notice struct {
	ID      int64
	Level   string
	Message string
}

// View is one open seat map. Pushes, clicks, catalog completion and
// teardown each run as a separate critical section under mu; requests to
// the booking service are made without holding it.
type View struct {
	id         string
	cfg        Config
	topic      push.TopicKey
	catalog    SeatCatalog
	channel    Subscriber
	decoder    push.Decoder
	dispatcher *Dispatcher
	guard      *TeardownGuard
	log        *zap.Logger

	mu          sync.Mutex
	rec         *Reconciler
	state       LoadState
	loadErr     error
	notices     []Notice
	nextNotice  int64
	closed      bool
	released    bool
	carried     map[entity.SeatKey]bool
	unsubscribe func()
}

func NewView(id string, cfg Config, deps Deps, log *zap.Logger) *View {
	log = log.With(
		zap.String("view_id", id),
		zap.Int64("event_id", cfg.EventID),
		zap.Int64("venue_id", cfg.VenueID),
	)

	return &View{
		id:         id,
		cfg:        cfg,
		topic:      push.TopicKey{EventID: cfg.EventID, VenueID: cfg.VenueID},
		catalog:    deps.Catalog,
		channel:    deps.Channel,
		decoder:    deps.Decoder,
		dispatcher: NewDispatcher(deps.Locker, cfg.EventID, cfg.VenueID, log),
		guard:      NewTeardownGuard(cfg.ReleaseOnFirstTeardown),
		log:        log.With(zap.String("component", "view")),
		rec:        NewReconciler(log),
		state:      LoadStateLoading,
	}
}

func (v *View) ID() string {
	return v.id
}

// Mount subscribes to the push channel and loads the roster once.
// A catalog failure leaves the view in the failed state; see Retry.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.unsubscribe == nil {
		v.unsubscribe = v.channel.Subscribe(v.handleNotification)
	}
	v.mu.Unlock()

	return v.load(ctx)
}

// Retry reloads the roster after a failed load.
func (v *View) Retry(ctx context.Context) error {
	v.mu.Lock()
	switch {
	case v.closed:
		v.mu.Unlock()
		return ErrViewClosed
	case v.state != LoadStateFailed:
		v.mu.Unlock()
		return ErrRetryUnavailable
	}
	v.state = LoadStateLoading
	v.loadErr = nil
	v.mu.Unlock()

	return v.load(ctx)
}

func (v *View) load(ctx context.Context) error {
	seats, err := v.catalog.FetchSeats(ctx, v.cfg.EventID, v.cfg.VenueID)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrViewClosed
	}
	if err != nil {
		v.state = LoadStateFailed
		v.loadErr = err
		v.log.Error("Failed to load seats", zap.Error(err))
		return err
	}

	v.rec.Initialize(seats)
	v.state = LoadStateReady
	v.log.Info("Seat map loaded", zap.Int("seats", len(seats)))
	return nil
}

// handleNotification folds one relay message into the roster. Nothing it
// receives is allowed to escape as an error or panic.
func (v *View) handleNotification(n push.Notification) {
	key, err := v.decoder.Topic(n)
	if err != nil {
		v.log.Debug("Ignoring notification", zap.Error(err), zap.String("channel", n.Channel))
		return
	}
	if key != v.topic {
		v.log.Debug("Ignoring notification for another seat map", zap.Stringer("topic", key))
		return
	}

	update, err := push.DecodeMessage(n.Message)
	if err != nil {
		v.log.Error("Dropping malformed seat update", zap.Error(err), zap.String("channel", n.Channel))
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.rec.ApplyRemoteUpdate(update.Seat())
}

// Click dispatches the command bound to the seat at key: unlock for a seat
// held by this guest, lock for an available one. The roster is not touched;
// the new state arrives through the push channel. A failed command leaves a
// notice on the view.
func (v *View) Click(ctx context.Context, key entity.SeatKey) (response.SeatAction, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return response.SeatActionNone, ErrViewClosed
	}
	if v.state != LoadStateReady {
		v.mu.Unlock()
		return response.SeatActionNone, ErrSeatMapNotReady
	}
	seat, ok := v.rec.Seat(key)
	v.mu.Unlock()

	if !ok {
		return response.SeatActionNone, fmt.Errorf("%w: %s", ErrSeatNotFound, key)
	}

	a := SeatAffordance(seat, v.cfg.GuestID, v.channel.IsConnected())
	if a.Disabled {
		return response.SeatActionNone, fmt.Errorf("%w: %s", ErrSeatDisabled, key)
	}

	var err error
	switch a.Action {
	case response.SeatActionLock:
		err = v.dispatcher.RequestLock(ctx, seat, v.cfg.GuestID)
	case response.SeatActionUnlock:
		err = v.dispatcher.RequestUnlock(ctx, seat, v.cfg.GuestID)
	}
	if err != nil {
		v.addNotice(fmt.Sprintf("Failed to change seat status: %v", err))
		return a.Action, err
	}

	return a.Action, nil
}

func (v *View) addNotice(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// the request outlived the view
	if v.closed {
		return
	}

	v.nextNotice++
	v.notices = append(v.notices, Notice{ID: v.nextNotice, Level: "error", Message: message})
}

// DismissNotice removes the notice with id and reports whether it existed.
func (v *View) DismissNotice(id int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := slices.IndexFunc(v.notices, func(n Notice) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	v.notices = slices.Delete(v.notices, i, i+1)
	return true
}

// SeatsLockedBy lists the seats currently locked by guestID.
func (v *View) SeatsLockedBy(guestID string) []entity.Seat {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rec.SeatsLockedBy(guestID)
}

func (v *View) State() LoadState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return LoadStateClosed
	}
	return v.state
}

func (v *View) Projection() response.SeatMapView {
	connected := v.channel.IsConnected()

	v.mu.Lock()
	defer v.mu.Unlock()

	view := response.SeatMapView{
		ViewID:    v.id,
		EventID:   v.cfg.EventID,
		VenueID:   v.cfg.VenueID,
		Event:     v.cfg.Event,
		GuestID:   v.cfg.GuestID,
		State:     string(v.state),
		Connected: connected,
		Rows:      []response.RowView{},
		MySeats:   []entity.Seat{},
		Notices:   make([]response.NoticeView, 0, len(v.notices)),
	}
	if v.closed {
		view.State = string(LoadStateClosed)
	}
	if v.loadErr != nil {
		view.Error = v.loadErr.Error()
	}
	if v.state == LoadStateReady {
		view.Rows = ProjectRows(v.rec.GroupByRow(), v.cfg.GuestID, connected)
		if mine := v.rec.SeatsLockedBy(v.cfg.GuestID); mine != nil {
			view.MySeats = mine
		}
	}
	for _, n := range v.notices {
		view.Notices = append(view.Notices, response.NoticeView{ID: n.ID, Level: n.Level, Message: n.Message})
	}
	view.CanOrder = !v.closed && len(view.MySeats) > 0

	return view
}

// Close tears the view down: it stops receiving pushes and, when the
// teardown guard allows it, releases every seat this guest still holds
// except the ones carried into an order summary. It may be called more
// than once; released reports whether the release step has run.
func (v *View) Close(ctx context.Context) (released bool, err error) {
	return v.teardown(ctx)
}

// Released reports whether the guarded release step has run.
func (v *View) Released() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.released
}

// ProceedToOrder carries the seats held by this guest into an order summary
// and tears the view down. Carried seats belong to the order from then on;
// every teardown of this view only releases the seats left behind.
func (v *View) ProceedToOrder(ctx context.Context, orderID string) (*OrderSummary, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, ErrViewClosed
	}
	carried := v.rec.SeatsLockedBy(v.cfg.GuestID)
	if len(carried) == 0 {
		v.mu.Unlock()
		return nil, ErrNothingToOrder
	}
	v.closed = true
	v.carried = make(map[entity.SeatKey]bool, len(carried))
	for _, seat := range carried {
		v.carried[seat.Key()] = true
	}
	v.mu.Unlock()

	event := entity.EventCard{ID: v.cfg.EventID, VenueID: v.cfg.VenueID}
	if v.cfg.Event != nil {
		event = *v.cfg.Event
	}
	order := NewOrderSummary(orderID, event, v.cfg.GuestID, carried, v.dispatcher, v.cfg.ReleaseOnFirstTeardown, v.log)

	if _, err := v.teardown(ctx); err != nil {
		v.log.Warn("Failed to release seats left behind", zap.Error(err))
	}

	return order, nil
}

func (v *View) teardown(ctx context.Context) (bool, error) {
	v.mu.Lock()
	v.closed = true
	unsubscribe := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	// outside mu: unsubscribing waits for an in-flight delivery, which needs mu
	if unsubscribe != nil {
		unsubscribe()
	}

	if !v.guard.Fire() {
		v.log.Info("Teardown guard armed, seats not released")
		return false, nil
	}

	v.mu.Lock()
	if v.released {
		v.mu.Unlock()
		return true, nil
	}
	v.released = true
	v.mu.Unlock()

	held := SeatListerFunc(func(guestID string) []entity.Seat {
		v.mu.Lock()
		defer v.mu.Unlock()

		var seats []entity.Seat
		for _, seat := range v.rec.SeatsLockedBy(guestID) {
			if !v.carried[seat.Key()] {
				seats = append(seats, seat)
			}
		}
		return seats
	})

	return true, v.dispatcher.ReleaseAllHeldByMe(ctx, held, v.cfg.GuestID)
}
