// Package rank orders rooms and room summaries for reports.
package rank

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"laundry-status-monitor/internal/model"
)

// Labeled is anything with a human room label.
type Labeled interface {
	GetLabel() string
}

// collator is not safe for concurrent use, so every sort builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// ByLabel returns a copy of items sorted by label in ascending locale order.
func ByLabel[T Labeled](items []T) []T {
	c := newCollator()
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return c.CompareString(a.GetLabel(), b.GetLabel())
	})
	return out
}

// ByWashers returns a copy ordered by available washers, then total washers
// (both descending), then label.
func ByWashers(summaries []model.RoomSummary) []model.RoomSummary {
	return byAvailability(summaries, func(s model.RoomSummary) model.Availability { return s.Washers })
}

// ByDryers is ByWashers for dryers.
func ByDryers(summaries []model.RoomSummary) []model.RoomSummary {
	return byAvailability(summaries, func(s model.RoomSummary) model.Availability { return s.Dryers })
}

func byAvailability(summaries []model.RoomSummary, key func(model.RoomSummary) model.Availability) []model.RoomSummary {
	c := newCollator()
	out := slices.Clone(summaries)
	slices.SortStableFunc(out, func(a, b model.RoomSummary) int {
		ka, kb := key(a), key(b)
		if n := cmp.Compare(kb.Available, ka.Available); n != 0 {
			return n
		}
		if n := cmp.Compare(kb.Total, ka.Total); n != 0 {
			return n
		}
		return c.CompareString(a.Label, b.Label)
	})
	return out
}

// By picks a sorter by name: label, washers or dryers. ok is false for unknown names.
func By(name string, summaries []model.RoomSummary) (sorted []model.RoomSummary, ok bool) {
	switch name {
	case "", "label":
		return ByLabel(summaries), true
	case "washers", "washer":
		return ByWashers(summaries), true
	case "dryers", "dryer":
		return ByDryers(summaries), true
	}
	return nil, false
}
