// Package metrics exposes forecast counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const OutcomeOK = "ok"

type Metrics struct {
	reg       *prometheus.Registry
	forecasts *prometheus.CounterVec
	latency   prometheus.Histogram
	inFlight  prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cropcast",
			Name:      "forecasts_total",
			Help:      "Forecast requests by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cropcast",
			Name:      "forecast_duration_seconds",
			Help:      "Time spent producing a forecast, model call included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cropcast",
			Name:      "forecasts_in_flight",
			Help:      "Model calls currently outstanding.",
		}),
	}
	reg.MustRegister(
		m.forecasts, m.latency, m.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Begin marks a model call as started and returns the func that ends it.
func (m *Metrics) Begin() func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func(outcome string) {
		m.inFlight.Dec()
		m.latency.Observe(time.Since(start).Seconds())
		m.forecasts.WithLabelValues(outcome).Inc()
	}
}

// Reject counts a request refused before any model call.
func (m *Metrics) Reject(outcome string) {
	if m == nil {
		return
	}
	m.forecasts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
