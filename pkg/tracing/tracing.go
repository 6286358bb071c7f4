// Package tracing records each reactive flush as an OpenTelemetry span.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Default tracer name for reactor spans.
const defaultTracerName = "reactor"

// SpanName is the name of the span recorded for every flush.
const SpanName = "reactor.flush"

// Config configures the flush tracer.
type Config struct {
	// TracerName is the name of the tracer (default: "reactor").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider

	// Context is the parent of every flush span (default: context.Background()).
	Context context.Context
}

// Option configures the flush tracer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.Provider = tp
	}
}

// WithContext sets the parent context of flush spans.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// Observer is a reactive.FlushObserver that emits one span per flush.
// Spans carry the flush's real start and end timestamps.
type Observer struct {
	tracer trace.Tracer
	ctx    context.Context
}

// NewObserver creates a flush tracer.
func NewObserver(opts ...Option) *Observer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Observer{
		tracer: config.Provider.Tracer(config.TracerName),
		ctx:    config.Context,
	}
}

// OnFlush implements reactive.FlushObserver.
func (o *Observer) OnFlush(r reactive.FlushReport) {
	_, span := o.tracer.Start(o.ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(r.Start),
		trace.WithAttributes(Attributes(r)...),
	)

	for _, err := range r.Errors {
		span.RecordError(err)
	}
	switch {
	case r.Aborted:
		span.SetStatus(codes.Error, "flush budget exceeded")
	case len(r.Errors) > 0:
		span.SetStatus(codes.Error, r.Errors[0].Error())
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(r.Start.Add(r.Duration)))
}

// Attributes returns the span attributes describing r.
func Attributes(r reactive.FlushReport) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("reactor.flush.seq", int64(r.Seq)),
		attribute.Int("reactor.flush.memo_runs", r.MemoRuns),
		attribute.Int("reactor.flush.effect_runs", r.EffectRuns),
		attribute.Int("reactor.flush.short_circuits", r.ShortCircuits),
		attribute.Int("reactor.flush.skipped", r.Skipped),
		attribute.Int("reactor.flush.live_nodes", r.LiveNodes),
		attribute.Bool("reactor.flush.aborted", r.Aborted),
	}
}
