// internal/metrics/prometheus.go
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Prometheus metrics
var (
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "favicongen_render_duration_seconds",
			Help:    "Time spent rendering and encoding a single output",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"kind"},
	)

	OutputsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favicongen_outputs_total",
			Help: "Total number of output files written",
		},
		[]string{"kind", "status"},
	)

	OutputBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "favicongen_output_bytes",
			Help: "Size in bytes of the last written output file",
		},
		[]string{"name"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favicongen_runs_total",
			Help: "Total number of generator runs",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "favicongen_run_duration_seconds",
			Help:    "Time spent on a full generator run",
			Buckets: prometheus.DefBuckets,
		},
	)

	FontFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "favicongen_font_fallbacks_total",
			Help: "Number of renders that used the built-in bitmap font",
		},
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "favicongen_websocket_connections_active",
			Help: "Number of active WebSocket connections",
		},
	)
)

type Collector struct{}

func NewCollector() *Collector {
	return &Collector{}
}

// RecordOutput records one written (or failed) output file. kind is "png"
// or "ico".
func (c *Collector) RecordOutput(name, kind string, size int, duration time.Duration, err error) {
	status := statusLabel(err)
	RenderDuration.WithLabelValues(kind).Observe(duration.Seconds())
	OutputsTotal.WithLabelValues(kind, status).Inc()
	if err == nil {
		OutputBytes.WithLabelValues(name).Set(float64(size))
	}
}

func (c *Collector) RecordRun(duration time.Duration, err error) {
	RunsTotal.WithLabelValues(statusLabel(err)).Inc()
	RunDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordFontFallback() {
	FontFallbacks.Inc()
}

func (c *Collector) RecordWebSocketConnection(delta int) {
	WebSocketConnections.Add(float64(delta))
}

// Push sends the generator metrics to a Pushgateway.
func (c *Collector) Push(ctx context.Context, url, job string) error {
	err := push.New(url, job).
		Collector(RenderDuration).
		Collector(OutputsTotal).
		Collector(OutputBytes).
		Collector(RunsTotal).
		Collector(RunDuration).
		Collector(FontFallbacks).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
