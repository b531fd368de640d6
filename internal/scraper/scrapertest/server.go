// Package scrapertest provides an in-process fake of the CSC laundry API.
package scrapertest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"laundry-status-monitor/config"
	"laundry-status-monitor/internal/model"
)

const LocationID = "loc-1"

// Upstream is a fake location with rooms, summaries and machines.
type Upstream struct {
	*httptest.Server

	mu        sync.Mutex
	rooms     []model.Room
	summaries map[string]model.RoomSummary
	machines  map[string][]model.Machine
	failing   map[string]int

	// Requests counts every request served.
	Requests atomic.Int64
}

// NewUpstream starts a fake upstream. Callers must Close it.
func NewUpstream(rooms ...model.Room) *Upstream {
	u := &Upstream{
		rooms:     rooms,
		summaries: make(map[string]model.RoomSummary),
		machines:  make(map[string][]model.Machine),
		failing:   make(map[string]int),
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

// SetSummary registers the summary returned for s.RoomID.
func (u *Upstream) SetSummary(s model.RoomSummary) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.summaries[s.RoomID] = s
}

// SetMachines registers the machines returned for roomID.
func (u *Upstream) SetMachines(roomID string, machines []model.Machine) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.machines[roomID] = machines
}

// Fail makes every request whose path contains fragment answer with status.
func (u *Upstream) Fail(fragment string, status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failing[fragment] = status
}

// Config returns a scraper configuration pointing at the fake.
func (u *Upstream) Config() config.ScraperConfig {
	cfg := config.Default().Scraper
	cfg.BaseURL = u.URL
	cfg.LocationID = LocationID
	return cfg
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.Requests.Add(1)
	u.mu.Lock()
	defer u.mu.Unlock()

	for fragment, status := range u.failing {
		if strings.Contains(r.URL.Path, fragment) {
			w.WriteHeader(status)
			return
		}
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// location/{id}[/room/{roomId}/{leaf}]
	if len(parts) < 2 || parts[0] != "location" || parts[1] != LocationID {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case len(parts) == 2:
		_ = json.NewEncoder(w).Encode(map[string]any{"rooms": u.rooms})
	case len(parts) == 5 && parts[2] == "room" && parts[4] == "summary":
		s, ok := u.summaries[parts[3]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"roomLabel": s.Label,
			"roomId":    s.RoomID,
			"washers":   s.Washers,
			"dryers":    s.Dryers,
		})
	case len(parts) == 5 && parts[2] == "room" && parts[4] == "machines":
		machines, ok := u.machines[parts[3]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(machines)
	default:
		http.NotFound(w, r)
	}
}
