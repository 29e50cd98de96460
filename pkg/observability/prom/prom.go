// Package prom exports observability hooks as Prometheus metrics.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/framegraph/pkg/observability"
)

// Metrics implements every hook interface of package observability.
type Metrics struct {
	DispatchTotal    *prometheus.CounterVec
	DispatchSeconds  *prometheus.HistogramVec
	BackendSkipTotal *prometheus.CounterVec
	ConvertTotal     *prometheus.CounterVec
	ConvertSeconds   *prometheus.HistogramVec
	CacheTotal       *prometheus.CounterVec
	CacheBytes       prometheus.Counter
}

var (
	_ observability.DispatchHooks = (*Metrics)(nil)
	_ observability.ConvertHooks  = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)

// New creates the metrics and registers them with reg. A nil reg skips
// registration, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framegraph_dispatch_total",
				Help: "Total number of dispatched algorithm calls",
			},
			[]string{"algorithm", "backend", "status"},
		),
		DispatchSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "framegraph_dispatch_seconds",
				Help:    "Duration of dispatched algorithm calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"algorithm"},
		),
		BackendSkipTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framegraph_backend_skip_total",
				Help: "Engines passed over during dispatch",
			},
			[]string{"algorithm", "backend", "reason"},
		),
		ConvertTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framegraph_convert_total",
				Help: "Total number of graph conversions",
			},
			[]string{"direction", "status"},
		),
		ConvertSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "framegraph_convert_seconds",
				Help:    "Duration of graph conversions",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"direction"},
		),
		CacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framegraph_cache_total",
				Help: "Cache lookups and writes",
			},
			[]string{"key_type", "event"},
		),
		CacheBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "framegraph_cache_written_bytes_total",
				Help: "Bytes written to the result cache",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.DispatchTotal,
			m.DispatchSeconds,
			m.BackendSkipTotal,
			m.ConvertTotal,
			m.ConvertSeconds,
			m.CacheTotal,
			m.CacheBytes,
		)
	}
	return m
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnDispatchStart(context.Context, string) {}

func (m *Metrics) OnBackendSkip(_ context.Context, algorithm, backend, reason string) {
	m.BackendSkipTotal.WithLabelValues(algorithm, backend, reason).Inc()
}

func (m *Metrics) OnDispatchComplete(_ context.Context, algorithm, backend string, d time.Duration, err error) {
	m.DispatchTotal.WithLabelValues(algorithm, backend, status(err)).Inc()
	m.DispatchSeconds.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (m *Metrics) OnConvert(direction string, _, _ int, d time.Duration, err error) {
	m.ConvertTotal.WithLabelValues(direction, status(err)).Inc()
	m.ConvertSeconds.WithLabelValues(direction).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheTotal.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.Add(float64(size))
}

// Register installs m as the global dispatch, conversion and cache hooks.
func (m *Metrics) Register() {
	observability.SetDispatchHooks(m)
	observability.SetConvertHooks(m)
	observability.SetCacheHooks(m)
}
