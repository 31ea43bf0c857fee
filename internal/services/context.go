package services

import "context"

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	submissionKey contextKey = "submission"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSubmission annotates context with the orchestrator request id of the
// submission being executed.
func WithSubmission(ctx context.Context, id uint64) context.Context {
	if id == 0 {
		return ctx
	}
	return context.WithValue(ctx, submissionKey, id)
}

// SubmissionFromContext returns the submission request id if present.
func SubmissionFromContext(ctx context.Context) (uint64, bool) {
	v := ctx.Value(submissionKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case uint64:
		return val, true
	case int:
		return uint64(val), val > 0
	default:
		return 0, false
	}
}
