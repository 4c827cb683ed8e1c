package response

import "seatmap-client/internal/data/entity"

type EventsResponse struct {
	Data     []entity.EventCard `json:"data"`
	Metadata Metadata           `json:"metadata"`
}
