package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	genCounter     otelmetric.Int64Counter
	genDuration    otelmetric.Float64Histogram
}

type options struct {
	registerer     promclient.Registerer
	spanProcessors []sdktrace.SpanProcessor
}

type Option func(*options)

// WithRegisterer sends the otel metrics to reg instead of the default
// Prometheus registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessors = append(o.spanProcessors, sp) }
}

func New(serviceName string, opts ...Option) *Observability {
	cfg := options{registerer: promclient.DefaultRegisterer}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	for _, sp := range cfg.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)

	o := &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}

	exporter, err := prometheus.New(prometheus.WithRegisterer(cfg.registerer))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	o.meterProvider = provider
	o.genCounter, _ = meter.Int64Counter(
		"generations.processed",
		otelmetric.WithDescription("Number of metadata generations"),
	)
	o.genDuration, _ = meter.Float64Histogram(
		"generations.duration",
		otelmetric.WithDescription("End-to-end generation duration"),
		otelmetric.WithUnit("ms"),
	)
	return o
}

// StartGeneration opens the span that covers one build, invoke and
// normalize run.
func (o *Observability) StartGeneration(ctx context.Context, mode string) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, noop.Span{}
	}
	return o.tracer.Start(ctx, "generate_metadata",
		trace.WithAttributes(attribute.String("generation.mode", mode)),
	)
}

// EndGeneration closes span with the outcome and records the otel metrics.
func (o *Observability) EndGeneration(ctx context.Context, span trace.Span, mode, outcome, reason string, err error, elapsed time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}

	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	if o == nil {
		return
	}
	if o.genCounter != nil {
		o.genCounter.Add(ctx, 1, otelmetric.WithAttributes(attrs...))
	}
	if o.genDuration != nil {
		o.genDuration.Record(ctx, float64(elapsed.Milliseconds()), otelmetric.WithAttributes(attrs[:2]...))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
