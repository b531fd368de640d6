package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"laundry-status-monitor/internal/model"
	"laundry-status-monitor/internal/render"
	"laundry-status-monitor/internal/scraper"
	"laundry-status-monitor/internal/store"
)

// RoomSource is the live upstream used by the room endpoints.
type RoomSource interface {
	GetRooms(ctx context.Context, label string) ([]model.Room, error)
	GetRoomSummaries(ctx context.Context, rooms []model.Room) ([]model.RoomSummary, error)
	GetMachines(ctx context.Context, roomID string) ([]model.Machine, error)
}

// Handler holds shared dependencies for API handlers. Store, db and webpush may be nil;
// the endpoints that need them then answer 503.
type Handler struct {
	rooms   RoomSource
	store   store.Store
	db      *gorm.DB
	webpush *webpush.Options
	reports *render.Engine
}

// NewHandler creates a new API handler.
func NewHandler(rooms RoomSource, s store.Store, db *gorm.DB, webpushOptions *webpush.Options) (*Handler, error) {
	reports, err := render.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to load report templates: %w", err)
	}
	return &Handler{
		rooms:   rooms,
		store:   s,
		db:      db,
		webpush: webpushOptions,
		reports: reports,
	}, nil
}

// upstreamError maps a failed upstream call onto a response.
func upstreamError(c *gin.Context, err error) {
	var te *scraper.TransportError
	switch {
	case errors.As(err, &te):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": te.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "upstream timed out"})
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Upstream request failed")
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
	}
}
