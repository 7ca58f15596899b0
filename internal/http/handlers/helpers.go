package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/http/response"
	"github.com/lumawake/lumawake-backend/internal/requestdata"
	"github.com/lumawake/lumawake-backend/internal/services"
	"github.com/lumawake/lumawake-backend/internal/types"
)

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDField(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// ownedAlarm loads the alarm and enforces that the caller owns it. A foreign
// alarm reads as not found, not forbidden, so ids are not probeable.
func ownedAlarm(c *gin.Context, alarms services.AlarmService, alarmID uuid.UUID) (*types.SmartAlarm, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	alarm, err := alarms.Get(c.Request.Context(), alarmID)
	if err != nil {
		response.RespondServiceError(c, err)
		return nil, false
	}
	if alarm.UserID != userID {
		response.RespondError(c, http.StatusNotFound, "not_found", services.ErrAlarmNotFound)
		return nil, false
	}
	return alarm, true
}
