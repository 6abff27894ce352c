package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK     = "ok"
	ResultFailed = "failed"
	ResultFatal  = "fatal"
)

// Metrics holds the Prometheus collectors for monitors and notifications.
type Metrics struct {
	CyclesTotal      *prometheus.CounterVec // labels: strategy, result
	SignalsTotal     *prometheus.CounterVec // labels: strategy, kind
	SuppressedTotal  *prometheus.CounterVec // labels: strategy
	DeliveriesTotal  *prometheus.CounterVec // labels: sink, result
	DeliveryDuration *prometheus.HistogramVec
	FetchDuration    prometheus.Histogram
	ActiveMonitors   prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monitor_cycles_total",
			Help: "Fetch-evaluate cycles by outcome",
		}, []string{"strategy", "result"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monitor_signals_total",
			Help: "Signals dispatched",
		}, []string{"strategy", "kind"}),
		SuppressedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monitor_signals_suppressed_total",
			Help: "Signals dropped by the dedup history",
		}, []string{"strategy"}),
		DeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Notification deliveries by sink and outcome",
		}, []string{"sink", "result"}),
		DeliveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notification_delivery_seconds",
			Help:    "Notification delivery latency",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"sink"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "monitor_fetch_seconds",
			Help:    "Market data fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveMonitors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "monitor_active",
			Help: "Monitors currently starting or running",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.CyclesTotal,
		m.SignalsTotal,
		m.SuppressedTotal,
		m.DeliveriesTotal,
		m.DeliveryDuration,
		m.FetchDuration,
		m.ActiveMonitors,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
