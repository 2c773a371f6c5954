package infra

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the process-wide prometheus registry. A nil *Metrics is valid
// and records nothing, which keeps unit tests free of global state.
type Metrics struct {
	reg             *prometheus.Registry
	OrdersSubmitted *prometheus.CounterVec
	OrdersRejected  *prometheus.CounterVec
	OrderTxSeconds  prometheus.Histogram
	DriftRows       prometheus.Gauge
	JobsProcessed   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retailing_orders_submitted_total",
		Help: "Committed orders by operation.",
	}, []string{"operation"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retailing_orders_rejected_total",
		Help: "Rejected order submissions by reason.",
	}, []string{"reason"})
	txSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "retailing_order_tx_seconds",
		Help:    "Duration of the order transaction.",
		Buckets: prometheus.DefBuckets,
	})
	drift := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "retailing_warehouse_drift_rows",
		Help: "Stock lines that disagree with the order journal at the last reconciliation.",
	})
	jobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retailing_jobs_processed_total",
		Help: "Background jobs by type and outcome.",
	}, []string{"type", "outcome"})

	r.MustRegister(submitted, rejected, txSeconds, drift, jobs,
		prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return &Metrics{
		reg:             r,
		OrdersSubmitted: submitted,
		OrdersRejected:  rejected,
		OrderTxSeconds:  txSeconds,
		DriftRows:       drift,
		JobsProcessed:   jobs,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) OrderSubmitted(operation string, took time.Duration) {
	if m == nil {
		return
	}
	m.OrdersSubmitted.WithLabelValues(operation).Inc()
	m.OrderTxSeconds.Observe(took.Seconds())
}

func (m *Metrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	m.OrdersRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetDrift(rows int) {
	if m == nil {
		return
	}
	m.DriftRows.Set(float64(rows))
}

func (m *Metrics) JobDone(jobType, outcome string) {
	if m == nil {
		return
	}
	m.JobsProcessed.WithLabelValues(jobType, outcome).Inc()
}
