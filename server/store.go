package ostinato

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	Mc "github.com/maroda/ostinato/compose"
	Mo "github.com/maroda/ostinato/obvy"
	Mp "github.com/maroda/ostinato/plugin"
	Mt "github.com/maroda/ostinato/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultWatchdog = 5 * time.Second

// Store owns the composition document.
// Every mutation goes through the MutationLock and runs
// load, change, save as one unit; a failed change is never saved.
type Store struct {
	Lock    *MutationLock
	Storage Mp.StorageAdapter
	Engine  *Mc.Engine
	Stats   *Mo.StatsInternal
	Sentry  *Mo.SentryMetrics
	Tracer  trace.Tracer
}

type StoreOption func(*Store)

func WithEngine(e *Mc.Engine) StoreOption {
	return func(s *Store) { s.Engine = e }
}

func WithStats(stats *Mo.StatsInternal) StoreOption {
	return func(s *Store) { s.Stats = stats }
}

func WithSentry(m *Mo.SentryMetrics) StoreOption {
	return func(s *Store) { s.Sentry = m }
}

func WithWatchdog(d time.Duration) StoreOption {
	return func(s *Store) { s.Lock.Watchdog = d }
}

func WithTracer(t trace.Tracer) StoreOption {
	return func(s *Store) { s.Tracer = t }
}

func NewStore(storage Mp.StorageAdapter, opts ...StoreOption) *Store {
	s := &Store{
		Lock:    NewMutationLock(DefaultWatchdog),
		Storage: storage,
		Engine:  Mc.NewEngine(nil),
		Tracer:  otel.Tracer("github.com/maroda/ostinato/server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Lock.OnWait = func(_ string, d time.Duration) { s.Stats.RecLockWait(d) }
	return s
}

// mutate runs change against a freshly loaded document while holding the lock,
// then saves the document if change succeeded.
func (s *Store) mutate(ctx context.Context, op string, change func(doc *Mt.Composition) (Result, error)) Result {
	return s.run(ctx, op, func() (Result, error) {
		doc, err := s.load()
		if err != nil {
			return Result{}, err
		}

		res, err := change(doc)
		if err != nil {
			return Result{}, err
		}
		return res, s.save(doc)
	})
}

// run is the operation boundary: lock, body, then logging, metrics and tracing.
// Every error is turned into a failed Result here.
func (s *Store) run(ctx context.Context, op string, body func() (Result, error)) Result {
	start := time.Now()
	ctx, span := s.Tracer.Start(ctx, "store."+op)
	defer span.End()

	var res Result
	err := s.Lock.WithLock(op, func() error {
		r, err := body()
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		res = failure(err)
	}

	s.record(ctx, span, op, res, err, time.Since(start))
	return res
}

func (s *Store) save(doc *Mt.Composition) error {
	if err := s.Storage.Save(doc); err != nil {
		return persistence(fmt.Errorf("save composition: %w", err))
	}
	return nil
}

// load reads and validates the current document.
func (s *Store) load() (*Mt.Composition, error) {
	doc, err := s.Storage.Load()
	if err != nil {
		return nil, persistence(fmt.Errorf("load composition: %w", err))
	}
	if err := Validate(doc); err != nil {
		return nil, persistence(fmt.Errorf("invalid composition: %w", err))
	}
	return doc, nil
}

func (s *Store) record(ctx context.Context, span trace.Span, op string, res Result, err error, d time.Duration) {
	span.SetAttributes(
		attribute.String("operation", op),
		attribute.Bool("success", res.Success),
		attribute.String("status", res.Status))
	s.Stats.RecOperation(op, res.Status, d)
	s.Sentry.RecordOperation(ctx, op, res.Status, d)

	var oe *OpError
	switch {
	case err == nil:
		slog.Info(res.Message, slog.String("operation", op))
	case errors.As(err, &oe) && !errors.Is(err, ErrPersistence):
		slog.Warn(res.Message, slog.String("operation", op), slog.String("status", res.Status))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.Sentry.CaptureError(op, err)
		slog.Error("Operation failed", slog.String("operation", op), slog.Any("Error", err))
	}
}

// Snapshot returns the current document without taking the lock.
// It may race with a write in progress and is meant for display only.
func (s *Store) Snapshot(ctx context.Context) (*Mt.Composition, error) {
	_, span := s.Tracer.Start(ctx, "store.snapshot")
	defer span.End()

	doc, err := s.Storage.Load()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load composition: %w", err)
	}
	return doc, nil
}

// Revision passes through the storage revision, for change detection.
func (s *Store) Revision() (int64, error) {
	return s.Storage.Revision()
}
