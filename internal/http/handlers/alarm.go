package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumawake/lumawake-backend/internal/http/response"
	"github.com/lumawake/lumawake-backend/internal/services"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type AlarmHandler struct {
	alarms services.AlarmService
}

func NewAlarmHandler(alarms services.AlarmService) *AlarmHandler {
	return &AlarmHandler{alarms: alarms}
}

type createAlarmRequest struct {
	Label              string   `json:"label" binding:"required"`
	WakeMinute         int      `json:"wake_minute" binding:"min=0,max=1439"`
	LearningFactor     *float64 `json:"learning_factor,omitempty"`
	SleepPatternWeight *float64 `json:"sleep_pattern_weight,omitempty"`
	RealTimeAdaptation bool     `json:"real_time_adaptation"`
	DynamicWakeWindow  bool     `json:"dynamic_wake_window"`
	MaxShiftMinutes    int      `json:"max_shift_minutes"`
}

// POST /api/v1/alarms
func (h *AlarmHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req createAlarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	alarm := &types.SmartAlarm{
		UserID:             userID,
		Label:              req.Label,
		WakeMinute:         req.WakeMinute,
		RealTimeAdaptation: req.RealTimeAdaptation,
		DynamicWakeWindow:  req.DynamicWakeWindow,
		MaxShiftMinutes:    req.MaxShiftMinutes,
		IsEnabled:          true,
	}
	if req.LearningFactor != nil {
		alarm.LearningFactor = *req.LearningFactor
	}
	if req.SleepPatternWeight != nil {
		alarm.SleepPatternWeight = *req.SleepPatternWeight
	}

	created, err := h.alarms.Create(c.Request.Context(), alarm)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"alarm": created})
}

// GET /api/v1/alarms
func (h *AlarmHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	alarms, err := h.alarms.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alarms": alarms})
}

// GET /api/v1/alarms/:id
func (h *AlarmHandler) Get(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	alarm, ok := ownedAlarm(c, h.alarms, alarmID)
	if !ok {
		return
	}
	response.RespondOK(c, gin.H{"alarm": alarm})
}

// PATCH /api/v1/alarms/:id
func (h *AlarmHandler) Update(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	var update services.AlarmUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	updated, err := h.alarms.Update(c.Request.Context(), alarmID, update)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alarm": updated})
}

// DELETE /api/v1/alarms/:id
func (h *AlarmHandler) Delete(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	if err := h.alarms.Delete(c.Request.Context(), alarmID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": alarmID})
}

// GET /api/v1/alarms/:id/adaptations
func (h *AlarmHandler) ListAdaptations(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	limit := 50
	events, err := h.alarms.ListAdaptations(c.Request.Context(), alarmID, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"adaptations": events})
}
