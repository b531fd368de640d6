package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"laundry-status-monitor/config"
	"laundry-status-monitor/internal/metrics"
	"laundry-status-monitor/internal/mw"
)

// NewRouter creates and configures a new Gin router. m may be nil.
func NewRouter(handler *Handler, cfg config.ServerConfig, m *metrics.Metrics) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/rooms", caching, handler.GetRooms)
		api.GET("/rooms/:room_id/machines", caching, handler.GetMachines)
		api.GET("/snapshots/:series", handler.GetSnapshots)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
