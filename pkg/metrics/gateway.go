package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics records the outcome of payment gateway callbacks.
type GatewayMetrics struct {
	duration  *prometheus.HistogramVec
	callbacks *prometheus.CounterVec
}

// NewGatewayMetrics registers the callback metrics on the provided registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_callback_duration_seconds",
		Help:    "Duration of gateway callback handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	callbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_callbacks_total",
		Help: "Gateway callbacks by method and result code.",
	}, []string{"method", "code"})
	reg.MustRegister(duration, callbacks)
	return &GatewayMetrics{
		duration:  duration,
		callbacks: callbacks,
	}
}

// ObserveDuration records handling time for the named callback method.
func (g *GatewayMetrics) ObserveDuration(method string, duration time.Duration) {
	if g == nil || g.duration == nil {
		return
	}
	g.duration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncCallback counts one callback by method and protocol result code.
func (g *GatewayMetrics) IncCallback(method, code string) {
	if g == nil || g.callbacks == nil {
		return
	}
	g.callbacks.WithLabelValues(normalizeLabel(method), normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
