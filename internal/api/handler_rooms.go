package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"laundry-status-monitor/internal/model"
	"laundry-status-monitor/internal/parse"
	"laundry-status-monitor/internal/rank"
	"laundry-status-monitor/internal/render"
)

// roomResponse is a live summary plus the building and floor parsed from its label.
type roomResponse struct {
	model.RoomSummary
	Building string `json:"building,omitempty"`
	Floor    *int   `json:"floor,omitempty"`
}

func newRoomResponse(s model.RoomSummary) roomResponse {
	resp := roomResponse{RoomSummary: s}
	if parsed, err := parse.ParseLabel(s.Label); err == nil {
		resp.Building = parsed.Building
		resp.Floor = &parsed.Floor
	}
	return resp
}

// GetRooms handles GET /api/rooms?label=&sort=&format=.
func (h *Handler) GetRooms(c *gin.Context) {
	sortBy := c.DefaultQuery("sort", "label")
	if _, ok := rank.By(sortBy, nil); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "sort must be label, washers or dryers"})
		return
	}

	ctx := c.Request.Context()
	rooms, err := h.rooms.GetRooms(ctx, c.Query("label"))
	if err != nil {
		upstreamError(c, err)
		return
	}
	summaries, err := h.rooms.GetRoomSummaries(ctx, rooms)
	if err != nil {
		upstreamError(c, err)
		return
	}
	sorted, _ := rank.By(sortBy, summaries)

	if c.Query("format") == "text" {
		out, err := h.reports.Rooms(strings.ToUpper(sortBy), sorted)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
			return
		}
		c.String(http.StatusOK, out)
		return
	}

	response := make([]roomResponse, 0, len(sorted))
	for _, s := range sorted {
		response = append(response, newRoomResponse(s))
	}
	c.JSON(http.StatusOK, response)
}

// GetMachines handles GET /api/rooms/:room_id/machines[?format=text].
func (h *Handler) GetMachines(c *gin.Context) {
	machines, err := h.rooms.GetMachines(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		upstreamError(c, err)
		return
	}

	if c.Query("format") == "text" {
		var buf bytes.Buffer
		if err := render.WriteMachines(&buf, machines); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to render machines"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
		return
	}

	if machines == nil {
		machines = []model.Machine{}
	}
	c.JSON(http.StatusOK, machines)
}
