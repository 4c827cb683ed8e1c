package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"seatmap-client/internal/data/entity"
	"seatmap-client/internal/dto/request"
	"seatmap-client/internal/dto/response"
	"seatmap-client/internal/push"
	"seatmap-client/internal/seatmap"
	"seatmap-client/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrViewNotFound   = errors.New("seat map not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrNoticeNotFound = errors.New("notice not found")
)

type SeatMapService interface {
	OpenSeatMap(ctx context.Context, req *request.OpenSeatMapRequest) (*response.SeatMapView, error)
	GetSeatMap(ctx context.Context, viewID string) (*response.SeatMapView, error)
	RetrySeatMap(ctx context.Context, viewID string) (*response.SeatMapView, error)
	ClickSeat(ctx context.Context, viewID string, req *request.SeatClickRequest) (*response.ClickResult, error)
	DismissNotice(ctx context.Context, viewID string, noticeID int64) error
	ProceedToOrder(ctx context.Context, viewID string) (*response.OrderSummaryView, error)
	CloseSeatMap(ctx context.Context, viewID string) error

	GetOrder(ctx context.Context, orderID string) (*response.OrderSummaryView, error)
	CloseOrder(ctx context.Context, orderID string) error

	// Shutdown tears down every open seat map and order summary.
	Shutdown(ctx context.Context) error
}

type SeatMapDeps struct {
	Catalog seatmap.SeatCatalog
	Locker  seatmap.SeatLocker
	Channel seatmap.Subscriber
	Decoder push.Decoder
	Guest   GuestIDSource
	Events  EventService
}

type seatMapService struct {
	deps           SeatMapDeps
	releaseOnFirst bool
	log            *zap.Logger

	mu     sync.Mutex
	views  map[string]*seatmap.View
	orders map[string]*seatmap.OrderSummary
}

func NewSeatMapService(deps SeatMapDeps, releaseOnFirstTeardown bool, log *zap.Logger) SeatMapService {
	return &seatMapService{
		deps:           deps,
		releaseOnFirst: releaseOnFirstTeardown,
		log:            log.With(zap.String("service", "seatmap")),
		views:          make(map[string]*seatmap.View),
		orders:         make(map[string]*seatmap.OrderSummary),
	}
}

// OpenSeatMap mounts a new view. A failed catalog fetch is not an error
// here: the view is returned in the failed state and can be retried.
func (s *seatMapService) OpenSeatMap(ctx context.Context, req *request.OpenSeatMapRequest) (*response.SeatMapView, error) {
	viewID := utils.GenerateUUIDString()
	view := seatmap.NewView(viewID, seatmap.Config{
		EventID:                req.EventID,
		VenueID:                req.VenueID,
		GuestID:                s.deps.Guest.GuestID(ctx),
		Event:                  s.deps.Events.FindEvent(ctx, req.EventID, req.VenueID),
		ReleaseOnFirstTeardown: s.releaseOnFirst,
	}, seatmap.Deps{
		Catalog: s.deps.Catalog,
		Locker:  s.deps.Locker,
		Channel: s.deps.Channel,
		Decoder: s.deps.Decoder,
	}, s.log)

	s.mu.Lock()
	s.views[viewID] = view
	s.mu.Unlock()

	if err := view.Mount(ctx); err != nil {
		s.log.Warn("Seat map opened without seats",
			zap.Error(err),
			zap.String("view_id", viewID),
			zap.Int64("event_id", req.EventID),
			zap.Int64("venue_id", req.VenueID),
		)
	} else {
		s.log.Info("Seat map opened",
			zap.String("view_id", viewID),
			zap.Int64("event_id", req.EventID),
			zap.Int64("venue_id", req.VenueID),
		)
	}

	projection := view.Projection()
	return &projection, nil
}

func (s *seatMapService) GetSeatMap(ctx context.Context, viewID string) (*response.SeatMapView, error) {
	view, err := s.view(viewID)
	if err != nil {
		return nil, err
	}

	projection := view.Projection()
	return &projection, nil
}

func (s *seatMapService) RetrySeatMap(ctx context.Context, viewID string) (*response.SeatMapView, error) {
	view, err := s.view(viewID)
	if err != nil {
		return nil, err
	}

	if err := view.Retry(ctx); err != nil {
		if errors.Is(err, seatmap.ErrRetryUnavailable) || errors.Is(err, seatmap.ErrViewClosed) {
			return nil, fmt.Errorf("retry seat map %s: %w", viewID, err)
		}
		// a failed fetch is reported through the projection
	}

	projection := view.Projection()
	return &projection, nil
}

func (s *seatMapService) ClickSeat(ctx context.Context, viewID string, req *request.SeatClickRequest) (*response.ClickResult, error) {
	view, err := s.view(viewID)
	if err != nil {
		return nil, err
	}

	seatKey := entity.SeatKey{RowNumber: req.RowNumber, SeatNumber: req.SeatNumber}
	action, err := view.Click(ctx, seatKey)
	if err != nil {
		return nil, fmt.Errorf("click seat %s: %w", seatKey, err)
	}

	return &response.ClickResult{Action: action, Seat: seatKey.String()}, nil
}

func (s *seatMapService) DismissNotice(ctx context.Context, viewID string, noticeID int64) error {
	view, err := s.view(viewID)
	if err != nil {
		return err
	}

	if !view.DismissNotice(noticeID) {
		return fmt.Errorf("%w: %d", ErrNoticeNotFound, noticeID)
	}
	return nil
}

func (s *seatMapService) ProceedToOrder(ctx context.Context, viewID string) (*response.OrderSummaryView, error) {
	view, err := s.view(viewID)
	if err != nil {
		return nil, err
	}

	order, err := view.ProceedToOrder(ctx, utils.GenerateUUIDString())
	if err != nil {
		return nil, fmt.Errorf("proceed to order: %w", err)
	}

	s.mu.Lock()
	s.orders[order.ID()] = order
	// an armed view stays so a later teardown releases the seats left behind
	if view.Released() {
		delete(s.views, viewID)
	}
	s.mu.Unlock()

	s.log.Info("Order summary opened", zap.String("view_id", viewID), zap.String("order_id", order.ID()))

	projection := order.Projection()
	return &projection, nil
}

// CloseSeatMap runs the view teardown. A view whose teardown guard only
// armed stays registered so a later teardown can still release its seats.
func (s *seatMapService) CloseSeatMap(ctx context.Context, viewID string) error {
	view, err := s.view(viewID)
	if err != nil {
		return err
	}

	released, err := view.Close(ctx)
	if released {
		s.mu.Lock()
		delete(s.views, viewID)
		s.mu.Unlock()
	}
	if err != nil {
		return fmt.Errorf("close seat map %s: %w", viewID, err)
	}

	s.log.Info("Seat map closed", zap.String("view_id", viewID), zap.Bool("released", released))
	return nil
}

func (s *seatMapService) GetOrder(ctx context.Context, orderID string) (*response.OrderSummaryView, error) {
	order, err := s.order(orderID)
	if err != nil {
		return nil, err
	}

	projection := order.Projection()
	return &projection, nil
}

func (s *seatMapService) CloseOrder(ctx context.Context, orderID string) error {
	order, err := s.order(orderID)
	if err != nil {
		return err
	}

	released, err := order.Close(ctx)
	if released {
		s.mu.Lock()
		delete(s.orders, orderID)
		s.mu.Unlock()
	}
	if err != nil {
		return fmt.Errorf("close order %s: %w", orderID, err)
	}

	s.log.Info("Order summary closed", zap.String("order_id", orderID), zap.Bool("released", released))
	return nil
}

func (s *seatMapService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	views := make([]*seatmap.View, 0, len(s.views))
	for _, v := range s.views {
		views = append(views, v)
	}
	orders := make([]*seatmap.OrderSummary, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	s.views = make(map[string]*seatmap.View)
	s.orders = make(map[string]*seatmap.OrderSummary)
	s.mu.Unlock()

	var errs []error
	for _, v := range views {
		if _, err := v.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close seat map %s: %w", v.ID(), err))
		}
	}
	for _, o := range orders {
		if _, err := o.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close order %s: %w", o.ID(), err))
		}
	}

	s.log.Info("Seat map sessions torn down", zap.Int("views", len(views)), zap.Int("orders", len(orders)))
	return errors.Join(errs...)
}

func (s *seatMapService) view(viewID string) (*seatmap.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[viewID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, viewID)
	}
	return view, nil
}

func (s *seatMapService) order(orderID string) (*seatmap.OrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return order, nil
}
