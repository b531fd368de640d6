package notification

import (
	"time"

	"github.com/patrickmn/go-cache"

	"laundry-status-monitor/internal/model"
)

// Alert announces that machines of one type became available in a room.
type Alert struct {
	RoomID    string
	Label     string
	Type      model.MachineType
	Available int
}

// Watcher remembers the previous summary of each room and reports rooms whose
// washers or dryers went from none available to some available.
type Watcher struct {
	last *cache.Cache
}

// NewWatcher forgets a room that has not been observed for ttl. Zero keeps rooms forever.
func NewWatcher(ttl time.Duration) *Watcher {
	if ttl <= 0 {
		return &Watcher{last: cache.New(cache.NoExpiration, 0)}
	}
	return &Watcher{last: cache.New(ttl, 2*ttl)}
}

// Observe records summaries and returns the alerts they trigger. The first
// observation of a room never alerts.
func (w *Watcher) Observe(summaries []model.RoomSummary) []Alert {
	var alerts []Alert
	for _, s := range summaries {
		if v, found := w.last.Get(s.RoomID); found {
			prev := v.(model.RoomSummary)
			if prev.Washers.Available == 0 && s.Washers.Available > 0 {
				alerts = append(alerts, Alert{RoomID: s.RoomID, Label: s.Label, Type: model.MachineTypeWasher, Available: s.Washers.Available})
			}
			if prev.Dryers.Available == 0 && s.Dryers.Available > 0 {
				alerts = append(alerts, Alert{RoomID: s.RoomID, Label: s.Label, Type: model.MachineTypeDryer, Available: s.Dryers.Available})
			}
		}
		w.last.Set(s.RoomID, s, cache.DefaultExpiration)
	}
	return alerts
}
