package usecase

import (
	"context"

	"seatmap-client/internal/dto/response"

	"go.uber.org/zap"
)

// GuestIDSource is satisfied by guest.Provider.
type GuestIDSource interface {
	GuestID(ctx context.Context) string
	Persisted() bool
}

type GuestService interface {
	GetGuest(ctx context.Context) *response.GuestResponse
}

type guestService struct {
	provider GuestIDSource
	log      *zap.Logger
}

func NewGuestService(provider GuestIDSource, log *zap.Logger) GuestService {
	return &guestService{
		provider: provider,
		log:      log.With(zap.String("service", "guest")),
	}
}

func (s *guestService) GetGuest(ctx context.Context) *response.GuestResponse {
	return &response.GuestResponse{
		GuestID:   s.provider.GuestID(ctx),
		Persisted: s.provider.Persisted(),
	}
}
