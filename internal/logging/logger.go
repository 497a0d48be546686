package logging

import (
	"context"
	"log"
)

type requestIDKey struct{}

// WithRequestID stores rid on ctx for NewLogger to pick up.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID returns the request ID stored on ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger writes bracketed key=value lines tagged with the request ID.
type Logger struct {
	requestID string
}

// NewLogger creates a logger bound to the request ID on ctx. Background
// work (polls, cron) logs as request_id=background.
func NewLogger(ctx context.Context) *Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "background"
	}
	return &Logger{requestID: rid}
}

func (l *Logger) LogError(operation string, err error) {
	log.Printf("[error] request_id=%s operation=%s error=%v", l.requestID, operation, err)
}

func (l *Logger) LogErrorf(operation string, format string, args ...any) {
	log.Printf("[error] request_id=%s operation=%s "+format, append([]any{l.requestID, operation}, args...)...)
}

func (l *Logger) LogInfo(operation string, message string) {
	log.Printf("[info] request_id=%s operation=%s message=%s", l.requestID, operation, message)
}

func (l *Logger) LogInfof(operation string, format string, args ...any) {
	log.Printf("[info] request_id=%s operation=%s "+format, append([]any{l.requestID, operation}, args...)...)
}

func (l *Logger) LogWarnf(operation string, format string, args ...any) {
	log.Printf("[warn] request_id=%s operation=%s "+format, append([]any{l.requestID, operation}, args...)...)
}
