package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lumawake/lumawake-backend/internal/http/response"
	"github.com/lumawake/lumawake-backend/internal/services"
)

// ScheduleHandler exposes the adaptive scheduling operations: on-demand
// adjustment computation, configuration review and optimization.
type ScheduleHandler struct {
	alarms     services.AlarmService
	evaluation services.EvaluationService
	validation services.ValidationService
	optimizer  services.OptimizerService
}

func NewScheduleHandler(
	alarms services.AlarmService,
	evaluation services.EvaluationService,
	validation services.ValidationService,
	optimizer services.OptimizerService,
) *ScheduleHandler {
	return &ScheduleHandler{
		alarms:     alarms,
		evaluation: evaluation,
		validation: validation,
		optimizer:  optimizer,
	}
}

// POST /api/v1/alarms/:id/adjustment
func (h *ScheduleHandler) ComputeAdjustment(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	adj, err := h.evaluation.ComputeAdjustment(c.Request.Context(), alarmID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"adjustment": adj})
}

// GET /api/v1/alarms/:id/validation
func (h *ScheduleHandler) Validate(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	report, err := h.validation.Validate(c.Request.Context(), alarmID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"validation": report})
}

// GET /api/v1/alarms/:id/suggestions
func (h *ScheduleHandler) Suggest(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	suggestions, err := h.optimizer.Suggest(c.Request.Context(), alarmID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suggestions": suggestions})
}

// POST /api/v1/alarms/:id/optimize
func (h *ScheduleHandler) Optimize(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	result, err := h.optimizer.Optimize(c.Request.Context(), alarmID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"optimization": result})
}
