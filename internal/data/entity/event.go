package entity

type EventType int

const (
	EventTypeConcert EventType = 1
	EventTypeMovie   EventType = 2
)

func (t EventType) String() string {
	if t == EventTypeConcert {
		return "Concert"
	}
	return "Movie"
}

// EventCard is read-only descriptive data about one bookable event.
type EventCard struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	DateTime string    `json:"dateTime"`
	Type     EventType `json:"type"`
	VenueID  int64     `json:"venueId"`
}
