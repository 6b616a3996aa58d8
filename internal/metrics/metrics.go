// Package metrics exposes Prometheus instrumentation for snapshot builds
// and the snapshot cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	BuildsTotal    prometheus.Counter
	BuildDuration  prometheus.Histogram
	SymbolFailures *prometheus.CounterVec // labels: symbol
	SymbolsBuilt   prometheus.Gauge

	CacheRequests    *prometheus.CounterVec // labels: result=hit|miss
	CacheEvictions   prometheus.Counter
	CacheWriteErrors prometheus.Counter
}

// NewMetrics registers and returns all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BuildsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketpulse_builds_total",
			Help: "Total snapshot builds",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketpulse_build_duration_seconds",
			Help:    "Snapshot build latency including upstream fetches",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		SymbolFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_symbol_failures_total",
			Help: "Symbols omitted from a snapshot because fetch or computation failed",
		}, []string{"symbol"}),
		SymbolsBuilt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketpulse_symbols_built",
			Help: "Symbols present in the most recent snapshot",
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_cache_requests_total",
			Help: "Snapshot cache lookups by result",
		}, []string{"result"}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketpulse_cache_evictions_total",
			Help: "Cache entries deleted by the eviction pass",
		}),
		CacheWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketpulse_cache_write_errors_total",
			Help: "Failed attempts to persist a snapshot",
		}),
	}

	m.registry.MustRegister(
		m.BuildsTotal,
		m.BuildDuration,
		m.SymbolFailures,
		m.SymbolsBuilt,
		m.CacheRequests,
		m.CacheEvictions,
		m.CacheWriteErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBuild records one finished build.
func (m *Metrics) ObserveBuild(d time.Duration, built int, failed []string) {
	if m == nil {
		return
	}
	m.BuildsTotal.Inc()
	m.BuildDuration.Observe(d.Seconds())
	m.SymbolsBuilt.Set(float64(built))
	for _, sym := range failed {
		m.SymbolFailures.WithLabelValues(sym).Inc()
	}
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues("miss").Inc()
}

func (m *Metrics) Evicted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CacheEvictions.Add(float64(n))
}

func (m *Metrics) WriteFailed() {
	if m == nil {
		return
	}
	m.CacheWriteErrors.Inc()
}
