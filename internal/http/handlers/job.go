package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/lumawake/lumawake-backend/internal/http/response"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/services"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type JobHandler struct {
	alarms  services.AlarmService
	jobRepo repos.JobRunRepo
}

func NewJobHandler(alarms services.AlarmService, jobRepo repos.JobRunRepo) *JobHandler {
	return &JobHandler{alarms: alarms, jobRepo: jobRepo}
}

// GET /api/v1/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	job, err := h.jobRepo.GetByID(c.Request.Context(), nil, jobID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if job == nil {
		response.RespondError(c, http.StatusNotFound, "job_not_found", nil)
		return
	}
	// Jobs always target an alarm; the caller must own it.
	if _, ok := ownedAlarm(c, h.alarms, job.EntityID); !ok {
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// POST /api/v1/alarms/:id/review
func (h *JobHandler) EnqueueReview(c *gin.Context) {
	alarmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, ok := ownedAlarm(c, h.alarms, alarmID); !ok {
		return
	}
	payload, _ := json.Marshal(map[string]any{"alarm_id": alarmID})
	jobs, err := h.jobRepo.Create(c.Request.Context(), nil, []*types.JobRun{{
		JobType:    types.JobTypeConfigReview,
		EntityType: "smart_alarm",
		EntityID:   alarmID,
		Status:     types.JobStatusQueued,
		Payload:    datatypes.JSON(payload),
	}})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job": jobs[0]})
}
