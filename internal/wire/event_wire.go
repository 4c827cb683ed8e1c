package wire

import (
	"seatmap-client/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireEvent(r chi.Router, eventHandler *adaptor.EventHandler) {
	r.Get("/api/events", eventHandler.ListEvents)
}

func wireGuest(r chi.Router, guestHandler *adaptor.GuestHandler) {
	r.Get("/api/guest", guestHandler.GetGuest)
}
