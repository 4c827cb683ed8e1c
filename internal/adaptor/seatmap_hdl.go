package adaptor

import (
	"encoding/json"
	"net/http"

	"seatmap-client/internal/dto/request"
	"seatmap-client/internal/usecase"
	"seatmap-client/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SeatMapHandler struct {
	service usecase.SeatMapService
	log     *zap.Logger
}

func NewSeatMapHandler(service usecase.SeatMapService, log *zap.Logger) *SeatMapHandler {
	return &SeatMapHandler{
		service: service,
		log:     log.With(zap.String("handler", "seatmap")),
	}
}

// OpenSeatMap handles POST /api/seatmaps
func (h *SeatMapHandler) OpenSeatMap(w http.ResponseWriter, r *http.Request) {
	var req request.OpenSeatMapRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	view, err := h.service.OpenSeatMap(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "open seat map")
		return
	}

	utils.ResponseCreated(w, "Seat map opened", view)
}

// GetSeatMap handles GET /api/seatmaps/{viewID}
func (h *SeatMapHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetSeatMap(r.Context(), chi.URLParam(r, "viewID"))
	if err != nil {
		handleServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", view)
}

// RetrySeatMap handles POST /api/seatmaps/{viewID}/retry
func (h *SeatMapHandler) RetrySeatMap(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RetrySeatMap(r.Context(), chi.URLParam(r, "viewID"))
	if err != nil {
		handleServiceError(w, h.log, err, "retry seat map")
		return
	}

	utils.ResponseSuccess(w, "success", view)
}

// ClickSeat handles POST /api/seatmaps/{viewID}/click
func (h *SeatMapHandler) ClickSeat(w http.ResponseWriter, r *http.Request) {
	var req request.SeatClickRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.ClickSeat(r.Context(), chi.URLParam(r, "viewID"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "click seat")
		return
	}

	// the seat changes once the relay broadcasts the result
	utils.ResponseAccepted(w, "Seat request sent", result)
}

// DismissNotice handles DELETE /api/seatmaps/{viewID}/notices/{noticeID}
func (h *SeatMapHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	noticeID, err := utils.ParseID(chi.URLParam(r, "noticeID"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid notice ID", nil)
		return
	}

	if err := h.service.DismissNotice(r.Context(), chi.URLParam(r, "viewID"), noticeID); err != nil {
		handleServiceError(w, h.log, err, "dismiss notice")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ProceedToOrder handles POST /api/seatmaps/{viewID}/order
func (h *SeatMapHandler) ProceedToOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.ProceedToOrder(r.Context(), chi.URLParam(r, "viewID"))
	if err != nil {
		handleServiceError(w, h.log, err, "proceed to order")
		return
	}

	utils.ResponseCreated(w, "Order summary opened", order)
}

// CloseSeatMap handles DELETE /api/seatmaps/{viewID}
func (h *SeatMapHandler) CloseSeatMap(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseSeatMap(r.Context(), chi.URLParam(r, "viewID")); err != nil {
		handleServiceError(w, h.log, err, "close seat map")
		return
	}

	utils.ResponseSuccess(w, "Seat map closed", nil)
}

// GetOrder handles GET /api/orders/{orderID}
func (h *SeatMapHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		handleServiceError(w, h.log, err, "get order")
		return
	}

	utils.ResponseSuccess(w, "success", order)
}

// CloseOrder handles DELETE /api/orders/{orderID}
func (h *SeatMapHandler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseOrder(r.Context(), chi.URLParam(r, "orderID")); err != nil {
		handleServiceError(w, h.log, err, "close order")
		return
	}

	utils.ResponseSuccess(w, "Order summary closed", nil)
}
