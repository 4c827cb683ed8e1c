package seatmap

import (
	"fmt"

	"seatmap-client/internal/data/entity"
	"seatmap-client/internal/dto/response"
)

const noConnectionSuffix = " (No connection)"

// Affordance is what a seat looks like and what clicking it does.
type Affordance struct {
	Class    response.SeatClass
	Disabled bool
	Action   response.SeatAction
}

// SeatAffordance derives the affordance of seat for guestID. Every seat is
// disabled while the push channel is down.
func SeatAffordance(seat entity.Seat, guestID string, connected bool) Affordance {
	mine := seat.LockedBy(guestID)

	var a Affordance
	switch {
	case mine:
		a.Class = response.SeatClassMine
	case seat.StatusID == entity.SeatStatusAvailable:
		a.Class = response.SeatClassAvailable
	default:
		a.Class = response.SeatClassUnavailable
	}

	a.Disabled = !connected ||
		seat.StatusID == entity.SeatStatusBooked ||
		(seat.StatusID == entity.SeatStatusLocked && !mine)

	switch {
	case a.Disabled:
		a.Action = response.SeatActionNone
	case mine:
		a.Action = response.SeatActionUnlock
	case seat.StatusID == entity.SeatStatusAvailable:
		a.Action = response.SeatActionLock
	default:
		a.Action = response.SeatActionNone
	}

	return a
}

func SeatTitle(seat entity.Seat, connected bool) string {
	title := fmt.Sprintf("Seat %s - Status: %s", seat.Key(), seat.StatusID.Label())
	if !connected {
		title += noConnectionSuffix
	}
	return title
}

func ProjectSeat(seat entity.Seat, guestID string, connected bool) response.SeatView {
	a := SeatAffordance(seat, guestID, connected)
	return response.SeatView{
		RowNumber:  seat.RowNumber,
		SeatNumber: seat.SeatNumber,
		StatusID:   seat.StatusID,
		Status:     seat.StatusID.Label(),
		Class:      a.Class,
		Disabled:   a.Disabled,
		Action:     a.Action,
		Title:      SeatTitle(seat, connected),
	}
}

func ProjectRows(rows []Row, guestID string, connected bool) []response.RowView {
	views := make([]response.RowView, 0, len(rows))
	for _, row := range rows {
		seats := make([]response.SeatView, 0, len(row.Seats))
		for _, seat := range row.Seats {
			seats = append(seats, ProjectSeat(seat, guestID, connected))
		}
		views = append(views, response.RowView{Row: row.Label, Seats: seats})
	}
	return views
}
