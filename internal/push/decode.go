package push

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"seatmap-client/internal/data/entity"
)

var (
	ErrPatternMismatch  = errors.New("notification pattern does not match")
	ErrMalformedTopic   = errors.New("malformed topic")
	ErrMalformedMessage = errors.New("malformed message")
)

// TopicKey is the (event, venue) pair a notification belongs to.
type TopicKey struct {
	EventID int64
	VenueID int64
}

func (k TopicKey) String() string {
	return fmt.Sprintf("%d_%d", k.EventID, k.VenueID)
}

// SeatUpdate is the decoded message body.
type SeatUpdate struct {
	StatusID   entity.SeatStatus
	RowNumber  string
	SeatNumber string
	GuestID    string
}

func (u SeatUpdate) Seat() entity.Seat {
	return entity.Seat{
		RowNumber:  u.RowNumber,
		SeatNumber: u.SeatNumber,
		StatusID:   u.StatusID,
		GuestID:    u.GuestID,
	}
}

// Decoder validates notifications against the configured message pattern.
type Decoder struct {
	pattern string
}

func NewDecoder(pattern string) Decoder {
	return Decoder{pattern: pattern}
}

// Topic checks the pattern and extracts the (event, venue) key from the channel.
func (d Decoder) Topic(n Notification) (TopicKey, error) {
	if n.Pattern != d.pattern {
		return TopicKey{}, fmt.Errorf("%w: got %q, want %q", ErrPatternMismatch, n.Pattern, d.pattern)
	}
	return ParseTopic(n.Channel)
}

// ParseTopic reads "<prefix>:<prefix>:{eventId}_{venueId}". At least three
// colon separated parts are required; the key is taken from the last one.
func ParseTopic(channel string) (TopicKey, error) {
	parts := strings.Split(channel, ":")
	if len(parts) < 3 {
		return TopicKey{}, fmt.Errorf("%w: %q", ErrMalformedTopic, channel)
	}

	ids := strings.Split(parts[len(parts)-1], "_")
	if len(ids) != 2 {
		return TopicKey{}, fmt.Errorf("%w: %q", ErrMalformedTopic, channel)
	}

	eventID, err := strconv.ParseInt(ids[0], 10, 64)
	if err != nil || eventID < 1 {
		return TopicKey{}, fmt.Errorf("%w: bad event id in %q", ErrMalformedTopic, channel)
	}
	venueID, err := strconv.ParseInt(ids[1], 10, 64)
	if err != nil || venueID < 1 {
		return TopicKey{}, fmt.Errorf("%w: bad venue id in %q", ErrMalformedTopic, channel)
	}

	return TopicKey{EventID: eventID, VenueID: venueID}, nil
}

// DecodeMessage parses the JSON tuple [statusId, rowNumber, seatNumber, guestId].
// All four elements are required; the guest id may be null or empty for
// seats that are not locked.
func DecodeMessage(raw string) (SeatUpdate, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &tuple); err != nil {
		return SeatUpdate{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if len(tuple) != 4 {
		return SeatUpdate{}, fmt.Errorf("%w: expected 4 elements, got %d", ErrMalformedMessage, len(tuple))
	}

	var update SeatUpdate
	if err := json.Unmarshal(tuple[0], &update.StatusID); err != nil {
		return SeatUpdate{}, fmt.Errorf("%w: status: %v", ErrMalformedMessage, err)
	}
	if !update.StatusID.Valid() {
		return SeatUpdate{}, fmt.Errorf("%w: unknown status %d", ErrMalformedMessage, update.StatusID)
	}
	if err := json.Unmarshal(tuple[1], &update.RowNumber); err != nil || update.RowNumber == "" {
		return SeatUpdate{}, fmt.Errorf("%w: row number", ErrMalformedMessage)
	}
	if err := json.Unmarshal(tuple[2], &update.SeatNumber); err != nil || update.SeatNumber == "" {
		return SeatUpdate{}, fmt.Errorf("%w: seat number", ErrMalformedMessage)
	}
	var guestID *string
	if err := json.Unmarshal(tuple[3], &guestID); err != nil {
		return SeatUpdate{}, fmt.Errorf("%w: guest id: %v", ErrMalformedMessage, err)
	}
	if guestID != nil {
		update.GuestID = *guestID
	}
	if update.StatusID == entity.SeatStatusLocked && update.GuestID == "" {
		return SeatUpdate{}, fmt.Errorf("%w: locked seat without guest id", ErrMalformedMessage)
	}

	return update, nil
}
