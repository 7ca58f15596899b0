package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumawake/lumawake-backend/internal/platform/apierr"
	"github.com/lumawake/lumawake-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondServiceError maps service sentinels to HTTP statuses so the
// handlers do not repeat the same switch.
func RespondServiceError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	switch {
	case errors.As(err, &apiErr):
		RespondError(c, apiErr.Status, apiErr.Code, apiErr)
	case errors.Is(err, services.ErrAlarmNotFound),
		errors.Is(err, services.ErrBindingNotFound),
		errors.Is(err, services.ErrDefinitionNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrAlreadyBound):
		RespondError(c, http.StatusConflict, "already_bound", err)
	case errors.Is(err, services.ErrInvalidFeeling):
		RespondError(c, http.StatusBadRequest, "invalid_feeling", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
