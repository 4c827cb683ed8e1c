package entity

import (
	"encoding/json"
	"fmt"
)

// SeatStatus is the wire-compatible reservation status of a seat.
type SeatStatus int

const (
	SeatStatusAvailable SeatStatus = 1
	SeatStatusLocked    SeatStatus = 2
	SeatStatusBooked    SeatStatus = 3
)

var seatStatusLabel = map[SeatStatus]string{
	SeatStatusAvailable: "Available",
	SeatStatusLocked:    "Locked",
	SeatStatusBooked:    "Booked",
}

// Valid reports whether s is one of the known wire values.
func (s SeatStatus) Valid() bool {
	_, ok := seatStatusLabel[s]
	return ok
}

// Label returns the human readable status name.
func (s SeatStatus) Label() string {
	if label, ok := seatStatusLabel[s]; ok {
		return label
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

func (s SeatStatus) String() string {
	return s.Label()
}

// SeatKey identifies a seat inside one (event, venue) roster.
type SeatKey struct {
	RowNumber  string
	SeatNumber string
}

func (k SeatKey) String() string {
	return k.RowNumber + k.SeatNumber
}

type Seat struct {
	RowNumber  string     `json:"rowNumber"`
	SeatNumber string     `json:"seatNumber"`
	StatusID   SeatStatus `json:"statusId"`
	GuestID    string     `json:"guestId,omitempty"`
}

func (s Seat) Key() SeatKey {
	return SeatKey{RowNumber: s.RowNumber, SeatNumber: s.SeatNumber}
}

// LockedBy reports whether the seat is locked by guestID.
func (s Seat) LockedBy(guestID string) bool {
	return guestID != "" && s.StatusID == SeatStatusLocked && s.GuestID == guestID
}

// Normalize drops the guest id from seats that cannot carry one.
// Only LOCKED seats have an owner.
func (s Seat) Normalize() Seat {
	if s.StatusID != SeatStatusLocked {
		s.GuestID = ""
	}
	return s
}

// UnmarshalJSON accepts the older "lockerId" field as an alias of "guestId".
func (s *Seat) UnmarshalJSON(data []byte) error {
	type seatAlias Seat
	var raw struct {
		seatAlias
		LockerID string `json:"lockerId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Seat(raw.seatAlias)
	if s.GuestID == "" {
		s.GuestID = raw.LockerID
	}
	return nil
}
