package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumawake/lumawake-backend/internal/http/response"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
	"github.com/lumawake/lumawake-backend/internal/services"
)

type ConditionHandler struct {
	alarms     services.AlarmService
	conditions services.ConditionService
}

func NewConditionHandler(alarms services.AlarmService, conditions services.ConditionService) *ConditionHandler {
	return &ConditionHandler{alarms: alarms, conditions: conditions}
}

// GET /api/v1/conditions
func (h *ConditionHandler) ListDefinitions(c *gin.Context) {
	defs, err := h.conditions.ListDefinitions(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conditions": defs})
}

type createConditionRequest struct {
	Key           string `json:"key" binding:"required"`
	Type          string `json:"type" binding:"required"`
	Operator      string `json:"operator" binding:"required"`
	Value         any    `json:"value" binding:"required"`
	TimeMinutes   int    `json:"time_minutes"`
	MaxAdjustment int    `json:"max_adjustment"`
	Reason        string `json:"reason" binding:"required"`
	Priority      int    `json:"priority"`
}

// POST /api/v1/conditions
func (h *ConditionHandler) CreateDefinition(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req createConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := h.conditions.CreateDefinition(c.Request.Context(), scheduling.Template{
		Key:           req.Key,
		Type:          req.Type,
		Operator:      req.Operator,
		Value:         req.Value,
		TimeMinutes:   req.TimeMinutes,
		MaxAdjustment: req.MaxAdjustment,
		Reason:        req.Reason,
		Priority:      req.Priority,
	})
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_condition", err)
		return
	}
	response.RespondCreated(c, gin.H{"condition": created})
}

// GET /api/v1/alarms/:id/conditions
func (h *ConditionHandler) ListBindings(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	bindings, err := h.conditions.ListBindings(c.Request.Context(), alarmID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bindings": bindings})
}

type attachRequest struct {
	DefinitionID string `json:"definition_id" binding:"required"`
}

// POST /api/v1/alarms/:id/conditions
func (h *ConditionHandler) Attach(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	definitionID, err := parseUUIDField(req.DefinitionID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_definition_id", err)
		return
	}
	binding, err := h.conditions.Attach(c.Request.Context(), alarmID, definitionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"binding": binding})
}

// DELETE /api/v1/alarms/:id/conditions/:definitionId
func (h *ConditionHandler) Detach(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	definitionID, ok := pathUUID(c, "definitionId")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	if err := h.conditions.Detach(c.Request.Context(), alarmID, definitionID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"detached": definitionID})
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// PATCH /api/v1/alarms/:id/conditions/:definitionId
func (h *ConditionHandler) SetEnabled(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	definitionID, ok := pathUUID(c, "definitionId")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	binding, err := h.conditions.SetEnabled(c.Request.Context(), alarmID, definitionID, *req.Enabled)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"binding": binding})
}
