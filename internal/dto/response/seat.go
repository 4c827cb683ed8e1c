package response

import "seatmap-client/internal/data/entity"

type Metadata struct {
	RequestID string `json:"requestId"`
}

// SeatsResponse is the booking service catalog envelope.
type SeatsResponse struct {
	Data     []entity.Seat `json:"data"`
	Metadata Metadata      `json:"metadata"`
}

// ErrorResponse is the error body returned by the booking and auth services.
type ErrorResponse struct {
	Message string `json:"message"`
}

type SeatClass string

const (
	SeatClassMine        SeatClass = "mine"
	SeatClassAvailable   SeatClass = "available"
	SeatClassUnavailable SeatClass = "unavailable"
)

type SeatAction string

const (
	SeatActionLock   SeatAction = "lock"
	SeatActionUnlock SeatAction = "unlock"
	SeatActionNone   SeatAction = "none"
)

type SeatView struct {
	RowNumber  string            `json:"rowNumber"`
	SeatNumber string            `json:"seatNumber"`
	StatusID   entity.SeatStatus `json:"statusId"`
	Status     string            `json:"status"`
	Class      SeatClass         `json:"class"`
	Disabled   bool              `json:"disabled"`
	Action     SeatAction        `json:"action"`
	Title      string            `json:"title"`
}

type RowView struct {
	Row   string     `json:"row"`
	Seats []SeatView `json:"seats"`
}

type NoticeView struct {
	ID      int64  `json:"id"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type SeatMapView struct {
	ViewID    string            `json:"viewId"`
	EventID   int64             `json:"eventId"`
	VenueID   int64             `json:"venueId"`
	Event     *entity.EventCard `json:"event,omitempty"`
	GuestID   string            `json:"guestId"`
	State     string            `json:"state"`
	Error     string            `json:"error,omitempty"`
	Connected bool              `json:"connected"`
	Rows      []RowView         `json:"rows"`
	MySeats   []entity.Seat     `json:"mySeats"`
	Notices   []NoticeView      `json:"notices"`
	CanOrder  bool              `json:"canOrder"`
}

type ClickResult struct {
	Action SeatAction `json:"action"`
	Seat   string     `json:"seat"`
}

type OrderSummaryView struct {
	OrderID string           `json:"orderId"`
	Event   entity.EventCard `json:"event"`
	GuestID string           `json:"guestId"`
	Seats   []entity.Seat    `json:"seats"`
}
