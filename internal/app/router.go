package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/lumawake/lumawake-backend/internal/http"
	httpMW "github.com/lumawake/lumawake-backend/internal/http/middleware"
	"github.com/lumawake/lumawake-backend/internal/observability"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers, auth *httpMW.AuthMiddleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:            log,
		AuthMiddleware: auth,
		CORSOrigins:    cfg.CORSOrigins,
		TracingEnabled: observability.Enabled(),

		HealthHandler:    h.Health,
		AlarmHandler:     h.Alarms,
		ConditionHandler: h.Conditions,
		ScheduleHandler:  h.Schedule,
		FeedbackHandler:  h.Feedback,
		JobHandler:       h.Jobs,
		RealtimeHandler:  h.Realtime,
	})
}
