// Package collector records timestamped room summaries into a snapshot store.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"laundry-status-monitor/config"
	"laundry-status-monitor/internal/metrics"
	"laundry-status-monitor/internal/model"
	"laundry-status-monitor/internal/notification"
	"laundry-status-monitor/internal/parse"
	"laundry-status-monitor/internal/store"
)

// Fetcher is the part of the upstream client the recorder needs.
type Fetcher interface {
	GetRooms(ctx context.Context, label string) ([]model.Room, error)
	GetRoomSummaries(ctx context.Context, rooms []model.Room) ([]model.RoomSummary, error)
}

// Dispatcher receives availability alerts.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert notification.Alert) error
}

// EmptyResultWarning is returned when no room matches a label. Nothing is written.
type EmptyResultWarning struct {
	Label string
}

func (w *EmptyResultWarning) Error() string {
	return fmt.Sprintf("no rooms match label %q", w.Label)
}

// IsEmptyResult reports whether err is an *EmptyResultWarning.
func IsEmptyResult(err error) bool {
	var w *EmptyResultWarning
	return errors.As(err, &w)
}

// Result describes one successful RecordOnce call.
type Result struct {
	Series  string
	Records []model.Snapshot
}

// Recorder fetches summaries for configured labels and appends them to a store.
type Recorder struct {
	client Fetcher
	store  store.Store
	cfg    config.CollectorConfig

	metrics    *metrics.Metrics
	watcher    *notification.Watcher
	dispatcher Dispatcher
	now        func() time.Time
}

// Option customizes a Recorder.
type Option func(*Recorder)

// WithMetrics reports collection outcomes to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) { r.metrics = m }
}

// WithAlerts feeds every recorded batch to w and dispatches the resulting alerts to d.
func WithAlerts(w *notification.Watcher, d Dispatcher) Option {
	return func(r *Recorder) {
		r.watcher = w
		r.dispatcher = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates a Recorder.
func NewRecorder(client Fetcher, st store.Store, cfg config.CollectorConfig, opts ...Option) *Recorder {
	r := &Recorder{
		client: client,
		store:  st,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Series returns the series a label is recorded into at the given time.
func (r *Recorder) Series(label string, now time.Time) string {
	if r.cfg.Naming == "fixed" {
		return r.cfg.FixedName
	}
	return parse.DailySeries(label, r.cfg.DefaultSlug, now)
}

// RecordOnce fetches every room matching label and appends one snapshot per room.
func (r *Recorder) RecordOnce(ctx context.Context, label string) (Result, error) {
	log := logrus.WithField("label", label)

	rooms, err := r.client.GetRooms(ctx, label)
	if err != nil {
		r.metrics.Failed("rooms")
		return Result{}, fmt.Errorf("get rooms: %w", err)
	}
	if len(rooms) == 0 {
		r.metrics.Skipped()
		return Result{}, &EmptyResultWarning{Label: label}
	}

	summaries, err := r.client.GetRoomSummaries(ctx, rooms)
	if err != nil {
		r.metrics.Failed("summaries")
		return Result{}, fmt.Errorf("get room summaries: %w", err)
	}

	now := r.now().UTC()
	res := Result{
		Series:  r.Series(label, now),
		Records: model.NewSnapshots(now, summaries),
	}
	if err := r.store.Append(ctx, res.Series, res.Records); err != nil {
		r.metrics.Failed("store")
		return Result{}, err
	}

	r.metrics.Recorded(len(res.Records))
	r.metrics.ObserveSummaries(summaries)
	r.alert(ctx, summaries)

	log.WithFields(logrus.Fields{"series": res.Series, "records": len(res.Records)}).Info("Recorded snapshots")
	return res, nil
}

func (r *Recorder) alert(ctx context.Context, summaries []model.RoomSummary) {
	if r.watcher == nil {
		return
	}
	for _, a := range r.watcher.Observe(summaries) {
		if r.dispatcher == nil {
			continue
		}
		if err := r.dispatcher.Dispatch(ctx, a); err != nil {
			logrus.WithError(err).WithField("room_id", a.RoomID).Warn("Dropped availability alert")
		}
	}
}

// RecordAll records every configured label in order. Empty results are logged and
// skipped; other errors are logged and joined into the returned error.
func (r *Recorder) RecordAll(ctx context.Context) error {
	var errs []error
	for _, label := range r.cfg.Labels {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		_, err := r.RecordOnce(ctx, label)
		switch {
		case err == nil:
		case IsEmptyResult(err):
			logrus.WithField("label", label).Warn(err.Error())
		default:
			logrus.WithError(err).WithField("label", label).Error("Failed to record snapshots")
			errs = append(errs, fmt.Errorf("label %q: %w", label, err))
		}
	}
	return errors.Join(errs...)
}

// Run records all labels immediately, then once per interval until ctx is done.
// A zero interval records once and returns.
func (r *Recorder) Run(ctx context.Context) {
	logrus.WithField("interval", r.cfg.Interval).Info("Starting collector")
	_ = r.RecordAll(ctx)
	if r.cfg.Interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Collector shutting down")
			return
		case <-ticker.C:
			_ = r.RecordAll(ctx)
		}
	}
}
