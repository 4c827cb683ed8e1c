package adaptor

import (
	"net/http"

	"seatmap-client/internal/usecase"
	"seatmap-client/pkg/utils"

	"go.uber.org/zap"
)

type GuestHandler struct {
	service usecase.GuestService
	log     *zap.Logger
}

func NewGuestHandler(service usecase.GuestService, log *zap.Logger) *GuestHandler {
	return &GuestHandler{
		service: service,
		log:     log.With(zap.String("handler", "guest")),
	}
}

// GetGuest handles GET /api/guest
func (h *GuestHandler) GetGuest(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.GetGuest(r.Context()))
}
