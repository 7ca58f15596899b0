// Package ctxutil threads per-request identifiers through context so log
// lines written anywhere below the middleware can be correlated.
package ctxutil

import "context"

type traceDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

// LogFields renders the identifiers as key-value pairs for the logger.
func (td *TraceData) LogFields() []interface{} {
	if td == nil {
		return nil
	}
	fields := []interface{}{"request_id", td.RequestID}
	if td.TraceID != "" {
		fields = append(fields, "trace_id", td.TraceID)
	}
	return fields
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}
