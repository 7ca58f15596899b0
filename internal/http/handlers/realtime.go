package handlers

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/sse"
)

type RealtimeHandler struct {
	hub *sse.Hub
	log *logger.Logger
}

func NewRealtimeHandler(hub *sse.Hub, baseLog *logger.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, log: baseLog.With("handler", "realtime")}
}

// GET /api/v1/realtime/stream
//
// Streams the caller's channel plus any alarm channels passed as repeated
// ?alarm= params. The connection stays open until the client goes away.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	channels := []string{"user:" + userID.String()}
	for _, raw := range c.QueryArray("alarm") {
		if alarmID, err := parseUUIDField(raw); err == nil {
			channels = append(channels, "alarm:"+alarmID.String())
		}
	}

	stream, cancel := h.hub.Subscribe(channels)
	defer cancel()

	h.log.Info("sse stream open", "user_id", userID, "channels", len(channels))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-stream:
			if !open {
				return false
			}
			data, err := json.Marshal(msg.Data)
			if err != nil {
				h.log.Warn("drop unencodable event", "event", msg.Event, "error", err)
				return true
			}
			c.SSEvent(msg.Event, string(data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	h.log.Info("sse stream closed", "user_id", userID)
}
