package ostinato

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InitOTel picks an exporter by name and returns its shutdown.
// "honeycomb" uses the Honeycomb launcher, "otlp" the plain OTLP/HTTP exporter,
// anything else leaves the global no-op provider in place.
func InitOTel(ctx context.Context, exporter string) (func(context.Context) error, error) {
	switch exporter {
	case "honeycomb":
		shutdown, err := InitOTelHNY()
		if err != nil {
			return nil, err
		}
		return func(context.Context) error { shutdown(); return nil }, nil
	case "otlp":
		tp, err := InitOTelOTLP(ctx)
		if err != nil {
			return nil, err
		}
		return tp.Shutdown, nil
	default:
		slog.Debug("Tracing disabled", slog.String("exporter", exporter))
		return func(context.Context) error { return nil }, nil
	}
}

// InitOTelHNY uses the Honeycomb library to interface with OTel.
// Service name and endpoint come from the OTEL_* environment.
func InitOTelHNY() (func(), error) {
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName("ostinato"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure OpenTelemetry: %w", err)
	}
	return func() { otelShutdown() }, nil
}

// InitOTelOTLP exports batched spans over OTLP/HTTP with baggage propagation.
func InitOTelOTLP(ctx context.Context) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}
