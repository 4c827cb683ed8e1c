package adaptor

import (
	"errors"
	"net/http"

	"seatmap-client/internal/client"
	"seatmap-client/internal/seatmap"
	"seatmap-client/internal/usecase"
	"seatmap-client/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Guest   *GuestHandler
	Event   *EventHandler
	SeatMap *SeatMapHandler
	Auth    *AuthHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Guest:   NewGuestHandler(service.Guest, log),
		Event:   NewEventHandler(service.Event, log),
		SeatMap: NewSeatMapHandler(service.SeatMap, log),
		Auth:    NewAuthHandler(service.Auth, log),
	}
}

// handleServiceError maps service errors to responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var apiErr *client.APIError

	switch {
	case errors.Is(err, usecase.ErrViewNotFound),
		errors.Is(err, usecase.ErrOrderNotFound),
		errors.Is(err, usecase.ErrNoticeNotFound),
		errors.Is(err, seatmap.ErrSeatNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, seatmap.ErrSeatDisabled),
		errors.Is(err, seatmap.ErrSeatNotAvailable),
		errors.Is(err, seatmap.ErrSeatNotHeld),
		errors.Is(err, seatmap.ErrSeatMapNotReady),
		errors.Is(err, seatmap.ErrViewClosed),
		errors.Is(err, seatmap.ErrNothingToOrder),
		errors.Is(err, seatmap.ErrRetryUnavailable):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.As(err, &apiErr):
		log.Warn(operation+" failed upstream",
			zap.Error(err),
			zap.Int("upstream_status", apiErr.StatusCode),
		)
		utils.ResponseBadGateway(w, apiErr.Message, map[string]int{"upstreamStatus": apiErr.StatusCode})

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
