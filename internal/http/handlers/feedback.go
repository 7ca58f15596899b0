package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumawake/lumawake-backend/internal/http/response"
	"github.com/lumawake/lumawake-backend/internal/services"
)

type FeedbackHandler struct {
	alarms   services.AlarmService
	feedback services.FeedbackService
}

func NewFeedbackHandler(alarms services.AlarmService, feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{alarms: alarms, feedback: feedback}
}

type recordFeedbackRequest struct {
	Feeling string     `json:"feeling" binding:"required"`
	WokeAt  *time.Time `json:"woke_at,omitempty"`
}

// POST /api/v1/alarms/:id/feedback
func (h *FeedbackHandler) Record(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	var req recordFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	wokeAt := time.Time{}
	if req.WokeAt != nil {
		wokeAt = *req.WokeAt
	}
	entry, err := h.feedback.Record(c.Request.Context(), alarmID, req.Feeling, wokeAt)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"feedback": entry})
}

// GET /api/v1/alarms/:id/feedback
func (h *FeedbackHandler) ListRecent(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	entries, err := h.feedback.ListRecent(c.Request.Context(), alarmID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"feedback": entries})
}
