package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceKey struct{}

// TraceData identifies one HTTP request across logs and spans.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	td, _ := ctx.Value(traceKey{}).(*TraceData)
	return td
}

// LogFields returns the key/value pairs identifying the request and caller,
// ready to append to a logger call. Empty values are skipped.
func LogFields(ctx context.Context) []interface{} {
	var kv []interface{}
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			kv = append(kv, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			kv = append(kv, "request_id", td.RequestID)
		}
	}
	if rd := GetRequestData(ctx); rd != nil {
		if rd.UserID != uuid.Nil {
			kv = append(kv, "user_id", rd.UserID.String())
		}
		if rd.ClientIP != "" {
			kv = append(kv, "client_ip", rd.ClientIP)
		}
	}
	return kv
}
