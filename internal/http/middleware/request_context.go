package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumawake/lumawake-backend/internal/platform/ctxutil"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
)

// AttachTraceContext stamps each request with a request id and, when a span
// is recording, the otel trace id. Both land in ctxutil for downstream logs.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		td := &ctxutil.TraceData{RequestID: uuid.NewString()}
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			td.TraceID = span.SpanContext().TraceID().String()
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Writer.Header().Set("X-Request-ID", td.RequestID)
		c.Next()
	}
}

// RequestLogger logs one line per request after it finishes.
func RequestLogger(baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		fields = append(fields, ctxutil.GetTraceData(c.Request.Context()).LogFields()...)
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		if c.Writer.Status() >= 500 {
			log.Error("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}
