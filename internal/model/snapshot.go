package model

import "time"

// TimestampLayout is ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Snapshot is one timestamped room summary. Snapshots are append-only.
type Snapshot struct {
	Timestamp string `json:"timestamp"`
	RoomSummary
}

// NewSnapshots stamps every summary with the same observation time.
func NewSnapshots(now time.Time, summaries []RoomSummary) []Snapshot {
	ts := FormatTimestamp(now)
	out := make([]Snapshot, len(summaries))
	for i, s := range summaries {
		out[i] = Snapshot{Timestamp: ts, RoomSummary: s}
	}
	return out
}

// SnapshotRow is the database representation of a Snapshot.
type SnapshotRow struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Series           string    `gorm:"size:256;not null;index"`
	ObservedAt       time.Time `gorm:"not null"`
	Label            string    `gorm:"size:256;not null"`
	RoomID           string    `gorm:"size:64;not null"`
	WashersAvailable int       `gorm:"not null"`
	WashersTotal     int       `gorm:"not null"`
	DryersAvailable  int       `gorm:"not null"`
	DryersTotal      int       `gorm:"not null"`
}

// ToRow converts s into a row of the given series. Unparseable timestamps become the zero time.
func (s Snapshot) ToRow(series string) SnapshotRow {
	observedAt, _ := time.Parse(time.RFC3339Nano, s.Timestamp)
	return SnapshotRow{
		Series:           series,
		ObservedAt:       observedAt.UTC(),
		Label:            s.Label,
		RoomID:           s.RoomID,
		WashersAvailable: s.Washers.Available,
		WashersTotal:     s.Washers.Total,
		DryersAvailable:  s.Dryers.Available,
		DryersTotal:      s.Dryers.Total,
	}
}

// Snapshot converts the row back into its JSON form.
func (r SnapshotRow) Snapshot() Snapshot {
	return Snapshot{
		Timestamp: FormatTimestamp(r.ObservedAt),
		RoomSummary: RoomSummary{
			Label:   r.Label,
			RoomID:  r.RoomID,
			Washers: Availability{Available: r.WashersAvailable, Total: r.WashersTotal},
			Dryers:  Availability{Available: r.DryersAvailable, Total: r.DryersTotal},
		},
	}
}
