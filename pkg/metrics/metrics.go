// Package metrics exports reactive flush reports as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: exponential from 10µs to ~80ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactor",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector is a reactive.FlushObserver that records every flush.
type Collector struct {
	flushes       prometheus.Counter
	aborted       prometheus.Counter
	duration      prometheus.Histogram
	runs          *prometheus.CounterVec
	shortCircuits prometheus.Counter
	skipped       prometheus.Counter
	errors        prometheus.Counter
	liveNodes     prometheus.Gauge
}

// NewCollector registers the reactor metrics and returns the collector.
func NewCollector(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		aborted: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_aborted_total",
			Help:        "Total number of flushes aborted by the flush budget",
			ConstLabels: config.ConstLabels,
		}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "node_runs_total",
			Help:        "Total number of computation runs during flushes",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		shortCircuits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "short_circuits_total",
			Help:        "Total number of memo recomputations that produced an equal value",
			ConstLabels: config.ConstLabels,
		}),

		skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "skipped_total",
			Help:        "Total number of queued nodes skipped because they were clean or disposed",
			ConstLabels: config.ConstLabels,
		}),

		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_errors_total",
			Help:        "Total number of failed memo and effect runs",
			ConstLabels: config.ConstLabels,
		}),

		liveNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_nodes",
			Help:        "Number of live reactive nodes after the last flush",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// OnFlush implements reactive.FlushObserver.
func (c *Collector) OnFlush(r reactive.FlushReport) {
	c.flushes.Inc()
	if r.Aborted {
		c.aborted.Inc()
	}
	c.duration.Observe(r.Duration.Seconds())
	c.runs.WithLabelValues("memo").Add(float64(r.MemoRuns))
	c.runs.WithLabelValues("effect").Add(float64(r.EffectRuns))
	c.shortCircuits.Add(float64(r.ShortCircuits))
	c.skipped.Add(float64(r.Skipped))
	c.errors.Add(float64(len(r.Errors)))
	c.liveNodes.Set(float64(r.LiveNodes))
}
