package usecase

import (
	"seatmap-client/internal/client"
	"seatmap-client/internal/data/repository"
	"seatmap-client/internal/guest"
	"seatmap-client/internal/push"
	"seatmap-client/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Guest   GuestService
	Event   EventService
	SeatMap SeatMapService
	Auth    AuthService
}

// Deps are the collaborators built in main and shared by the services.
type Deps struct {
	Repo    *repository.Repository
	Booking *client.BookingClient
	Auth    *client.AuthClient
	Guest   *guest.Provider
	Channel *push.Channel
}

func NewService(deps Deps, config *utils.Config, log *zap.Logger) *Service {
	events := NewEventService(deps.Booking, log)

	return &Service{
		Guest: NewGuestService(deps.Guest, log),
		Event: events,
		SeatMap: NewSeatMapService(SeatMapDeps{
			Catalog: deps.Booking,
			Locker:  deps.Booking,
			Channel: deps.Channel,
			Decoder: push.NewDecoder(config.Push.MessagePattern),
			Guest:   deps.Guest,
			Events:  events,
		}, config.SeatMap.ReleaseOnFirstTeardown, log),
		Auth: NewAuthService(deps.Auth, log),
	}
}
