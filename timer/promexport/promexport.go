// Package promexport exposes recorder samples as Prometheus metrics.
//
// A Collector is a timer.Observer: attach it with timer.WithObserver and
// every iteration of every wrapped call is observed, independent of whether
// the recorder keeps samples itself.
package promexport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexander-akhmetov/exectimer/timer"
)

// DefaultBuckets are the latency buckets in seconds.
var DefaultBuckets = []float64{
	.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

// Collector records call durations and counts per key.
type Collector struct {
	durations  *prometheus.HistogramVec
	iterations *prometheus.CounterVec
}

type options struct {
	namespace string
	buckets   []float64
}

// Option tunes metric naming and buckets.
type Option func(*options)

// WithNamespace sets the metric prefix. The default is "exectimer".
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets replaces DefaultBuckets.
func WithBuckets(b []float64) Option {
	return func(o *options) {
		if len(b) > 0 {
			o.buckets = b
		}
	}
}

// New creates a Collector and registers its metrics with reg.
// It panics if the metrics are already registered, like MustRegister.
func New(reg prometheus.Registerer, opts ...Option) *Collector {
	o := options{namespace: "exectimer", buckets: DefaultBuckets}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Collector{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "call_duration_seconds",
			Help:      "Duration of a single timed iteration in seconds",
			Buckets:   o.buckets,
		}, []string{"owner", "name"}),

		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "iterations_total",
			Help:      "Total number of timed iterations",
		}, []string{"owner", "name"}),
	}

	reg.MustRegister(c.durations, c.iterations)
	return c
}

// Observe implements timer.Observer.
func (c *Collector) Observe(key timer.Key, elapsed time.Duration) {
	c.durations.WithLabelValues(key.Owner, key.Name).Observe(elapsed.Seconds())
	c.iterations.WithLabelValues(key.Owner, key.Name).Inc()
}

var _ timer.Observer = (*Collector)(nil)
