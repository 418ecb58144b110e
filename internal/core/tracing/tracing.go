// Package tracing installs the global OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type Options struct {
	Enabled     bool
	Exporter    string // stdout | otlp
	Endpoint    string
	Insecure    bool
	SampleRatio float64
	ServiceName string
	Environment string
}

// Setup returns a shutdown func that flushes pending spans. When tracing is
// disabled the shutdown is a no-op and the global provider stays untouched.
func Setup(ctx context.Context, o Options, l *zap.Logger) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !o.Enabled {
		return noop, nil
	}
	exp, err := newExporter(ctx, o)
	if err != nil {
		return noop, err
	}
	name := strings.TrimSpace(o.ServiceName)
	if name == "" {
		name = "market-backend"
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", name),
		attribute.String("deployment.environment", o.Environment),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(o.SampleRatio)))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	l.Info("tracing initialized", zap.String("service", name), zap.String("exporter", o.Exporter))
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, o Options) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(o.Exporter) {
	case "otlp":
		opts := []otlptracehttp.Option{}
		if o.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(o.Endpoint))
		}
		if o.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case "", "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, errors.Errorf("unknown trace exporter %q", o.Exporter)
	}
}

func clampRatio(r float64) float64 {
	switch {
	case r <= 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
