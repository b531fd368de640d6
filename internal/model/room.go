package model

// Room is a laundry room as listed in the location directory.
type Room struct {
	Label  string `json:"label"`
	RoomID string `json:"roomId"`
}

// Availability counts the machines of one type in a room.
type Availability struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// RoomSummary aggregates washer and dryer availability for one room.
type RoomSummary struct {
	Label   string       `json:"label"`
	RoomID  string       `json:"roomId"`
	Washers Availability `json:"washers"`
	Dryers  Availability `json:"dryers"`
}

// GetLabel lets rooms and summaries share the label sorter.
func (r Room) GetLabel() string { return r.Label }

func (s RoomSummary) GetLabel() string { return s.Label }
