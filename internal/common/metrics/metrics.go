package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folder_metadata_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folder_metadata_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	GenerationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folder_metadata_generation_outcomes_total",
			Help: "Generation results by mode, outcome and fallback reason",
		},
		[]string{"mode", "outcome", "reason"},
	)

	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folder_metadata_model_call_duration_seconds",
			Help:    "Duration of chat model calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"mode", "status"},
	)

	GenerationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folder_metadata_generations_in_flight",
			Help: "Generations currently waiting on the model",
		},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveModelCall records one model round trip; status is "ok" or "error".
func ObserveModelCall(mode, status string, elapsed time.Duration) {
	ModelCallDuration.WithLabelValues(mode, status).Observe(elapsed.Seconds())
}

func CountOutcome(mode, outcome, reason string) {
	GenerationOutcomes.WithLabelValues(mode, outcome, reason).Inc()
}
