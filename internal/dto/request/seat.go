package request

// LockSeatRequest is sent to the booking service to lock one seat for a guest.
type LockSeatRequest struct {
	EventID    int64  `json:"eventId" validate:"required,gt=0"`
	VenueID    int64  `json:"venueId" validate:"required,gt=0"`
	RowNumber  string `json:"rowNumber" validate:"required"`
	SeatNumber string `json:"seatNumber" validate:"required"`
	GuestID    string `json:"guestId" validate:"required"`
}

// UnlockSeatRequest carries no guest id, the booking service resolves ownership.
type UnlockSeatRequest struct {
	EventID    int64  `json:"eventId" validate:"required,gt=0"`
	VenueID    int64  `json:"venueId" validate:"required,gt=0"`
	RowNumber  string `json:"rowNumber" validate:"required"`
	SeatNumber string `json:"seatNumber" validate:"required"`
}

type OpenSeatMapRequest struct {
	EventID int64 `json:"eventId" validate:"required,gt=0"`
	VenueID int64 `json:"venueId" validate:"required,gt=0"`
}

type SeatClickRequest struct {
	RowNumber  string `json:"rowNumber" validate:"required"`
	SeatNumber string `json:"seatNumber" validate:"required"`
}
