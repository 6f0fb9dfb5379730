// Package logger wraps logrus behind a small interface so handlers and
// use cases do not depend on a concrete logging library.
package logger

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Fields carries structured log context.
type Fields map[string]interface{}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID returns a context carrying the request correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFrom extracts the correlation ID from the context, if any.
func CorrelationIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// Logger is the structured logging interface used across the service.
type Logger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, err error, fields Fields)
	WithFields(fields Fields) Logger
}

// Config controls level, format and the service tag stamped on every entry.
type Config struct {
	Level       string
	Format      string // json or text
	ServiceName string
}

type structuredLogger struct {
	logger *logrus.Logger
	fields Fields
}

// New builds a logrus-backed Logger. Unknown levels fall back to info.
func New(cfg Config) Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		l.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339Nano, FullTimestamp: true})
	}
	l.SetOutput(os.Stdout)

	return &structuredLogger{
		logger: l,
		fields: Fields{"service": cfg.ServiceName},
	}
}

func (s *structuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	s.entry(ctx, nil, fields).Debug(message)
}

func (s *structuredLogger) Info(ctx context.Context, message string, fields Fields) {
	s.entry(ctx, nil, fields).Info(message)
}

func (s *structuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	s.entry(ctx, nil, fields).Warn(message)
}

func (s *structuredLogger) Error(ctx context.Context, message string, err error, fields Fields) {
	s.entry(ctx, err, fields).Error(message)
}

func (s *structuredLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(s.fields)+len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &structuredLogger{logger: s.logger, fields: merged}
}

func (s *structuredLogger) entry(ctx context.Context, err error, fields Fields) *logrus.Entry {
	all := logrus.Fields{}
	for k, v := range s.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	if id := CorrelationIDFrom(ctx); id != "" {
		all["correlation_id"] = id
	}
	if err != nil {
		all["error"] = err.Error()
	}
	return s.logger.WithFields(all)
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return &structuredLogger{logger: l, fields: Fields{}}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
