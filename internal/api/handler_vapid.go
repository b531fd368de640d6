package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetVAPIDPublicKey returns the key browsers need to create a push subscription.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	var key string
	if h.webpush != nil {
		key = h.webpush.VAPIDPublicKey
	}
	if key == "" || h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": key})
}
