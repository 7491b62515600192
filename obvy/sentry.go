package ostinato

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryMetrics reports operations and persistence failures to Sentry.
// A nil or disabled value does nothing.
type SentryMetrics struct {
	enabled bool
}

// InitSentry configures the Sentry client when dsn is set.
// It returns a flush function to call on shutdown.
func InitSentry(dsn, release string) (*SentryMetrics, func(), error) {
	if dsn == "" || dsn == "ENOENT" {
		return &SentryMetrics{}, func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          release,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init sentry: %w", err)
	}

	slog.Info("Sentry enabled", slog.String("release", release))
	return NewSentryMetrics(), func() { sentry.Flush(2 * time.Second) }, nil
}

func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{enabled: true}
}

func (m *SentryMetrics) Enabled() bool { return m != nil && m.enabled }

// RecordOperation records one store operation as a span.
func (m *SentryMetrics) RecordOperation(ctx context.Context, op, status string, duration time.Duration) {
	if !m.Enabled() {
		return
	}

	span := sentry.StartSpan(ctx, "store."+op)
	defer span.Finish()

	span.SetTag("status", status)
	span.SetData("duration_ms", duration.Milliseconds())

	if status == "error" {
		span.Status = sentry.SpanStatusInternalError
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Description = fmt.Sprintf("Operation: %s", op)
}

// CaptureError sends err with the operation name attached.
func (m *SentryMetrics) CaptureError(op string, err error) {
	if !m.Enabled() || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", op)
		sentry.CaptureException(err)
	})
}
