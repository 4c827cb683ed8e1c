package wire

import (
	"seatmap-client/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSeatMap(r chi.Router, seatMapHandler *adaptor.SeatMapHandler) {
	r.Route("/api/seatmaps", func(r chi.Router) {
		// POST /api/seatmaps - mount a seat map for {eventId, venueId}
		r.Post("/", seatMapHandler.OpenSeatMap)

		r.Route("/{viewID}", func(r chi.Router) {
			r.Get("/", seatMapHandler.GetSeatMap)
			r.Delete("/", seatMapHandler.CloseSeatMap)

			r.Post("/retry", seatMapHandler.RetrySeatMap)
			r.Post("/click", seatMapHandler.ClickSeat)
			r.Post("/order", seatMapHandler.ProceedToOrder)
			r.Delete("/notices/{noticeID}", seatMapHandler.DismissNotice)
		})
	})

	r.Route("/api/orders/{orderID}", func(r chi.Router) {
		r.Get("/", seatMapHandler.GetOrder)
		r.Delete("/", seatMapHandler.CloseOrder)
	})
}
