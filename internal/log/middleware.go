package log

import (
	"context"
	"log/slog"
	"net/http"
)

// StructuredLogger groups the fixed-shape log lines the request path and
// record audit trail emit. The component comes from the wrapped Logger.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogHTTPStart logs the start of an HTTP request.
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, requestID, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer")).
		WithRequestID(requestID).
		WithClientIP(clientIP)

	sl.logger.InfoContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd logs request completion, escalating the level on 4xx and 5xx.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, requestID string, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithRequestID(requestID).
		WithClientIP(clientIP)

	sl.logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogRecordChange logs a record mutation with its identifying fields.
func (sl *StructuredLogger) LogRecordChange(ctx context.Context, op, kind string, id int64, period string) {
	fields := NewFields().
		WithRecord(kind, id, period).
		WithOperation(op)

	sl.logger.InfoContext(ctx, "Record changed", fields.ToSlice()...)
}

// LogError logs a failed operation with its error attached.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, op string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields.WithError(err).WithOperation(op)

	sl.logger.ErrorContext(ctx, msg, fields.ToSlice()...)
}
