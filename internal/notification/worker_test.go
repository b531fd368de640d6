package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundry-status-monitor/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, nil, &webpush.Options{})

	require.NoError(t, wp.Dispatch(context.Background(), Alert{RoomID: "a"}))

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "a", job.RoomID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchCancelled(t *testing.T) {
	wp := NewWorkerPool(1, nil, &webpush.Options{})
	require.NoError(t, wp.Dispatch(context.Background(), Alert{RoomID: "fills the buffer"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wp.Dispatch(ctx, Alert{RoomID: "b"}), context.Canceled)
}

func TestWorkerPool_SendsToRoomSubscribers(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&[]model.PushSubscription{
		{Endpoint: "https://example.com/a", P256DH: "k1", Auth: "a1", RoomID: "room-a"},
		{Endpoint: "https://example.com/b", P256DH: "k2", Auth: "a2", RoomID: "room-b"},
	}).Error)

	sent := make(chan string, 4)
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "2 washers available in Prince Frederick FL7", string(payload))
			assert.Equal(t, "k1", sub.Keys.P256dh)
			sent <- sub.Endpoint
			return response(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	require.NoError(t, wp.Dispatch(ctx, Alert{RoomID: "room-a", Label: "Prince Frederick FL7", Type: model.MachineTypeWasher, Available: 2}))

	select {
	case endpoint := <-sent:
		assert.Equal(t, "https://example.com/a", endpoint)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
	}
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.PushSubscription{Endpoint: "https://example.com/expired", P256DH: "k", Auth: "a", RoomID: "room-a"}).Error)

	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return response(http.StatusGone), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)
	require.NoError(t, wp.Dispatch(ctx, Alert{RoomID: "room-a", Label: "x", Type: model.MachineTypeDryer, Available: 1}))

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&model.PushSubscription{}).Count(&count)
		return count == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "1 dryer available in FL7", Message(Alert{Label: "FL7", Type: model.MachineTypeDryer, Available: 1}))
	assert.Equal(t, "3 washers available in FL2", Message(Alert{Label: "FL2", Type: model.MachineTypeWasher, Available: 3}))
}
