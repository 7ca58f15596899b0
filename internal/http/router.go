package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/lumawake/lumawake-backend/internal/http/handlers"
	httpMW "github.com/lumawake/lumawake-backend/internal/http/middleware"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware
	CORSOrigins    []string
	TracingEnabled bool

	HealthHandler    *httpH.HealthHandler
	AlarmHandler     *httpH.AlarmHandler
	ConditionHandler *httpH.ConditionHandler
	ScheduleHandler  *httpH.ScheduleHandler
	FeedbackHandler  *httpH.FeedbackHandler
	JobHandler       *httpH.JobHandler
	RealtimeHandler  *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("lumawake-backend"))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AlarmHandler != nil {
			protected.POST("/alarms", cfg.AlarmHandler.Create)
			protected.GET("/alarms", cfg.AlarmHandler.List)
			protected.GET("/alarms/:id", cfg.AlarmHandler.Get)
			protected.PATCH("/alarms/:id", cfg.AlarmHandler.Update)
			protected.DELETE("/alarms/:id", cfg.AlarmHandler.Delete)
			protected.GET("/alarms/:id/adaptations", cfg.AlarmHandler.ListAdaptations)
		}

		if cfg.ConditionHandler != nil {
			protected.GET("/conditions", cfg.ConditionHandler.ListDefinitions)
			protected.POST("/conditions", cfg.ConditionHandler.CreateDefinition)
			protected.GET("/alarms/:id/conditions", cfg.ConditionHandler.ListBindings)
			protected.POST("/alarms/:id/conditions", cfg.ConditionHandler.Attach)
			protected.PATCH("/alarms/:id/conditions/:definitionId", cfg.ConditionHandler.SetEnabled)
			protected.DELETE("/alarms/:id/conditions/:definitionId", cfg.ConditionHandler.Detach)
		}

		if cfg.ScheduleHandler != nil {
			protected.POST("/alarms/:id/adjustment", cfg.ScheduleHandler.ComputeAdjustment)
			protected.GET("/alarms/:id/validation", cfg.ScheduleHandler.Validate)
			protected.GET("/alarms/:id/suggestions", cfg.ScheduleHandler.Suggest)
			protected.POST("/alarms/:id/optimize", cfg.ScheduleHandler.Optimize)
		}

		if cfg.FeedbackHandler != nil {
			protected.POST("/alarms/:id/feedback", cfg.FeedbackHandler.Record)
			protected.GET("/alarms/:id/feedback", cfg.FeedbackHandler.ListRecent)
		}

		if cfg.JobHandler != nil {
			protected.GET("/jobs/:id", cfg.JobHandler.Get)
			protected.POST("/alarms/:id/review", cfg.JobHandler.EnqueueReview)
		}

		if cfg.RealtimeHandler != nil {
			protected.GET("/realtime/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
