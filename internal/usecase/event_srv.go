package usecase

import (
	"context"
	"fmt"
	"sync"

	"seatmap-client/internal/data/entity"

	"go.uber.org/zap"
)

type EventLister interface {
	FetchEvents(ctx context.Context) ([]entity.EventCard, error)
}

type EventService interface {
	ListEvents(ctx context.Context) ([]entity.EventCard, error)
	// FindEvent returns the card of eventID at venueID, or nil when unknown.
	FindEvent(ctx context.Context, eventID, venueID int64) *entity.EventCard
}

type eventService struct {
	lister EventLister
	log    *zap.Logger

	mu     sync.RWMutex
	cached []entity.EventCard
}

func NewEventService(lister EventLister, log *zap.Logger) EventService {
	return &eventService{
		lister: lister,
		log:    log.With(zap.String("service", "event")),
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]entity.EventCard, error) {
	events, err := s.lister.FetchEvents(ctx)
	if err != nil {
		s.log.Error("Failed to fetch events", zap.Error(err))
		return nil, fmt.Errorf("list events: %w", err)
	}

	s.mu.Lock()
	s.cached = events
	s.mu.Unlock()

	s.log.Info("Events retrieved", zap.Int("count", len(events)))
	return events, nil
}

func (s *eventService) FindEvent(ctx context.Context, eventID, venueID int64) *entity.EventCard {
	if card := s.lookup(eventID, venueID); card != nil {
		return card
	}

	// not seen yet, refresh once
	if _, err := s.ListEvents(ctx); err != nil {
		s.log.Warn("Event card unavailable", zap.Int64("event_id", eventID), zap.Error(err))
		return nil
	}
	return s.lookup(eventID, venueID)
}

func (s *eventService) lookup(eventID, venueID int64) *entity.EventCard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, event := range s.cached {
		if event.ID == eventID && event.VenueID == venueID {
			card := event
			return &card
		}
	}
	return nil
}
