// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

// Package telemetry sets up OpenTelemetry tracing for formrelay and provides
// the span helpers used around mail delivery.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/zapr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/dafonte/formrelay/pkg/config"
)

const (
	ServiceName = "formrelay"
	tracerName  = "github.com/dafonte/formrelay"
)

// ShutdownFunc flushes pending spans and stops the provider.
type ShutdownFunc func(ctx context.Context) error

// Init installs the global TracerProvider described by cfg. With tracing
// disabled a no-op provider is installed and the returned ShutdownFunc does nothing.
func Init(ctx context.Context, cfg config.Tracing, serviceVersion string, log *zap.Logger) (trace.TracerProvider, ShutdownFunc, error) {
	if !cfg.Enabled {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, func(context.Context) error { return nil }, nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	slog := log.Sugar()

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating OTel resource: %w", err)
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplingRate(cfg.SamplingRate, slog)))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetLogger(zapr.NewLogger(log.Named("otel")))
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		slog.Warnw("OpenTelemetry internal error", "error", err)
	}))

	slog.Infow("OpenTelemetry tracing initialized",
		"exporter", cfg.Exporter,
		"endpoint", cfg.Endpoint,
		"samplingRate", cfg.SamplingRate)

	return tp, func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(shutdownCtx)
	}, nil
}

func newExporter(ctx context.Context, cfg config.Tracing) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "otlp", "":
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP gRPC exporter: %w", err)
		}
		return exporter, nil
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		return exporter, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown OTel exporter %q: supported values are otlp, stdout, none", cfg.Exporter)
	}
}

// samplingRate clamps out-of-range values to 1.0.
func samplingRate(rate float64, log *zap.SugaredLogger) float64 {
	if rate < 0 || rate > 1 {
		log.Warnw("OTel sampling rate out of range, using 1.0", "provided", rate)
		return 1.0
	}
	return rate
}

// StartDelivery opens the span covering one delivery attempt.
func StartDelivery(ctx context.Context, transport string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "mail.deliver",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("mail.transport", transport)))
}

// EndDelivery records the outcome on span and ends it.
func EndDelivery(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("mail.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
