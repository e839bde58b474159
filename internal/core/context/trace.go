// Package context carries request-scoped values: trace ids and the party an
// order is being placed for.
package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext identifies one request across logs and responses.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type (
	traceKey    struct{}
	cardCodeKey struct{}
)

// NewTraceContext keeps incoming ids and generates the missing ones.
func NewTraceContext(traceID, requestID string) *TraceContext {
	if traceID == "" {
		traceID = uuid.New().String()
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &TraceContext{
		TraceID:   traceID,
		SpanID:    uuid.New().String()[:16],
		RequestID: requestID,
	}
}

func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns nil outside a traced request.
func GetTrace(ctx context.Context) *TraceContext {
	t, _ := ctx.Value(traceKey{}).(*TraceContext)
	return t
}

func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// WithCardCode scopes ctx to the party an order is placed for.
func WithCardCode(ctx context.Context, cardCode string) context.Context {
	if cardCode == "" {
		return ctx
	}
	return context.WithValue(ctx, cardCodeKey{}, cardCode)
}

func GetCardCode(ctx context.Context) string {
	code, _ := ctx.Value(cardCodeKey{}).(string)
	return code
}

// LogFields returns the key/value pairs every log line under ctx carries.
func LogFields(ctx context.Context) []any {
	var kv []any
	if t := GetTrace(ctx); t != nil {
		kv = append(kv, "trace_id", t.TraceID, "request_id", t.RequestID)
	}
	if code := GetCardCode(ctx); code != "" {
		kv = append(kv, "card_code", code)
	}
	return kv
}
