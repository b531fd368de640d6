package scraper

import "laundry-status-monitor/internal/model"

// locationResponse models GET /location/{locationId}.
type locationResponse struct {
	Rooms []model.Room `json:"rooms"`
}

// summaryResponse models GET /location/{locationId}/room/{roomId}/summary.
type summaryResponse struct {
	RoomLabel string             `json:"roomLabel"`
	RoomID    string             `json:"roomId"`
	Washers   model.Availability `json:"washers"`
	Dryers    model.Availability `json:"dryers"`
}

func (r summaryResponse) toSummary() model.RoomSummary {
	return model.RoomSummary{
		Label:   r.RoomLabel,
		RoomID:  r.RoomID,
		Washers: r.Washers,
		Dryers:  r.Dryers,
	}
}
