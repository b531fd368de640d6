package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"laundry-status-monitor/internal/store"
)

// GetSnapshots handles GET /api/snapshots/:series.
func (h *Handler) GetSnapshots(c *gin.Context) {
	if h.store == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot storage is not configured"})
		return
	}

	series := c.Param("series")
	records, err := h.store.Load(c.Request.Context(), series)
	if err != nil {
		if errors.Is(err, store.ErrInvalidSeries) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).WithField("series", series).Error("Failed to load snapshots")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshots"})
		return
	}
	c.JSON(http.StatusOK, records)
}
