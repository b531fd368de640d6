package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"laundry-status-monitor/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends notifications with the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool delivers availability alerts to the subscribers of a room.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines. They stop when ctx is done.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log := logrus.WithField("worker", id)
	log.Debug("Notification worker started")
	for {
		select {
		case alert := <-wp.jobs:
			log.WithField("room_id", alert.RoomID).Debug("Processing alert")
			wp.notifyRoom(ctx, alert)
		case <-ctx.Done():
			log.Debug("Notification worker shutting down")
			return
		}
	}
}

// Dispatch queues an alert, blocking while the queue is full or until ctx is done.
func (wp *WorkerPool) Dispatch(ctx context.Context, alert Alert) error {
	select {
	case wp.jobs <- alert:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Alert {
	return wp.jobs
}

// Message is the notification text for an alert.
func Message(a Alert) string {
	noun := "washer"
	if a.Type == model.MachineTypeDryer {
		noun = "dryer"
	}
	if a.Available != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s available in %s", a.Available, noun, a.Label)
}

func (wp *WorkerPool) notifyRoom(ctx context.Context, alert Alert) {
	log := logrus.WithFields(logrus.Fields{"room_id": alert.RoomID, "label": alert.Label})

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Where("room_id = ?", alert.RoomID).Find(&subscriptions).Error; err != nil {
		log.WithError(err).Error("Failed to load subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.WithField("subscriptions", len(subscriptions)).Info("Sending availability notifications")
	payload := []byte(Message(alert))
	for _, sub := range subscriptions {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		logrus.WithError(err).WithField("endpoint", sub.Endpoint).Error("Failed to send notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		logrus.WithField("endpoint", sub.Endpoint).Info("Subscription expired, deleting")
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			logrus.WithError(err).WithField("endpoint", sub.Endpoint).Error("Failed to delete expired subscription")
		}
	}
}
