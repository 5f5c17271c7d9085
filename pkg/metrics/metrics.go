package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	GatewayCallsTotal   *prometheus.CounterVec
	GatewayCallDuration *prometheus.HistogramVec

	EditViewsDegraded *prometheus.CounterVec
	RiskCallsSkipped  prometheus.Counter
	NotesRecorded     prometheus.Counter
	NotesSkipped      prometheus.Counter
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		GatewayCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total outbound gateway calls by capability, operation, and status.",
		}, []string{"capability", "operation", "status"}),

		GatewayCallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Outbound gateway call latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"capability", "operation"}),

		EditViewsDegraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "view",
			Name:      "edit_views_degraded_total",
			Help:      "Edit-view assemblies that fell back to a default for a step.",
		}, []string{"step"}),

		RiskCallsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "view",
			Name:      "risk_calls_skipped_total",
			Help:      "Risk assessments skipped because the patient has no notes.",
		}),

		NotesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "view",
			Name:      "notes_recorded_total",
			Help:      "Medical-history notes recorded during patient updates.",
		}),

		NotesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "view",
			Name:      "notes_skipped_total",
			Help:      "Note creations skipped because physician or note text was blank.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
