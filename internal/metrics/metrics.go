// Package metrics exposes laundry availability and collector health to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"laundry-status-monitor/internal/model"
)

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	available *prometheus.GaugeVec
	total     *prometheus.GaugeVec
	recorded  prometheus.Counter
	failures  *prometheus.CounterVec
	skipped   prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "laundry",
			Name:      "machines_available",
			Help:      "Machines currently available per room and type.",
		}, []string{"room_id", "label", "type"}),
		total: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "laundry",
			Name:      "machines_total",
			Help:      "Machines installed per room and type.",
		}, []string{"room_id", "label", "type"}),
		recorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "laundry",
			Name:      "snapshots_recorded_total",
			Help:      "Snapshot records appended to storage.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundry",
			Name:      "collect_failures_total",
			Help:      "Failed collection runs by stage.",
		}, []string{"stage"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "laundry",
			Name:      "collect_empty_total",
			Help:      "Collection runs skipped because no room matched the label.",
		}),
	}
	m.registry.MustRegister(
		m.available, m.total, m.recorded, m.failures, m.skipped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSummaries updates the availability gauges.
func (m *Metrics) ObserveSummaries(summaries []model.RoomSummary) {
	if m == nil {
		return
	}
	for _, s := range summaries {
		for typ, a := range map[model.MachineType]model.Availability{
			model.MachineTypeWasher: s.Washers,
			model.MachineTypeDryer:  s.Dryers,
		} {
			m.available.WithLabelValues(s.RoomID, s.Label, string(typ)).Set(float64(a.Available))
			m.total.WithLabelValues(s.RoomID, s.Label, string(typ)).Set(float64(a.Total))
		}
	}
}

// Recorded counts appended snapshot records.
func (m *Metrics) Recorded(n int) {
	if m == nil {
		return
	}
	m.recorded.Add(float64(n))
}

// Failed counts a failed run at stage (rooms, summaries, store).
func (m *Metrics) Failed(stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(stage).Inc()
}

// Skipped counts a run that matched no rooms.
func (m *Metrics) Skipped() {
	if m == nil {
		return
	}
	m.skipped.Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
