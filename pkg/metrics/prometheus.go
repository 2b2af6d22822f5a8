package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	exportsSent *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastClose   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
	barsServed  *prometheus.CounterVec
	cacheEvents *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		exportsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chartpull_exports_total",
				Help: "Total number of candle batches exported to a backend",
			},
			[]string{"backend", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chartpull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastClose: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chartpull_last_close",
				Help: "Last close price observed for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chartpull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		barsServed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chartpull_bars_served_total",
				Help: "Number of candles served per timeframe",
			},
			[]string{"timeframe"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chartpull_cache_events_total",
				Help: "Session cache hits and misses per level",
			},
			[]string{"level", "result"},
		),
	}
}

// RecordExport records a candle batch sent to a backend.
func (r *Recorder) RecordExport(backend, symbol string) {
	r.exportsSent.WithLabelValues(backend, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastClose records the last close price for a symbol.
func (r *Recorder) RecordLastClose(symbol string, price float64) {
	r.lastClose.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordBarsServed counts candles included in a chart response.
func (r *Recorder) RecordBarsServed(timeframe string, n int) {
	r.barsServed.WithLabelValues(timeframe).Add(float64(n))
}

// RecordCacheEvent counts a cache hit or miss ("hit"/"miss") per level.
func (r *Recorder) RecordCacheEvent(level, result string) {
	r.cacheEvents.WithLabelValues(level, result).Inc()
}
