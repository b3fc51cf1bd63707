package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "beacon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "beacon",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Routing engine metrics
	routingEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "routing",
			Name:      "evaluations_total",
			Help:      "Total number of routing evaluations by outcome",
		},
		[]string{"outcome"}, // matched, no_match, error
	)

	routingRuleMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "routing",
			Name:      "rule_matches_total",
			Help:      "Total number of rule matches by rule",
		},
		[]string{"rule_id"},
	)

	routingEvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "beacon",
			Subsystem: "routing",
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of a full routing evaluation in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	// Ingestion metrics
	alertsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "ingest",
			Name:      "alerts_total",
			Help:      "Total number of ingested alerts by result",
		},
		[]string{"result"}, // created, deduplicated, suppressed, rejected
	)
)

// RecordEvaluation records the outcome and duration of a routing evaluation
func RecordEvaluation(outcome string, duration time.Duration) {
	routingEvaluationsTotal.WithLabelValues(outcome).Inc()
	routingEvaluationDuration.Observe(duration.Seconds())
}

// RecordRuleMatch records a match against a specific rule
func RecordRuleMatch(ruleID int64) {
	routingRuleMatchesTotal.WithLabelValues(strconv.FormatInt(ruleID, 10)).Inc()
}

// RecordIngest records the result of an alert ingestion
func RecordIngest(result string) {
	alertsIngestedTotal.WithLabelValues(result).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		// Use the route pattern rather than the raw path to keep label
		// cardinality bounded.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := strconv.Itoa(wrapped.status)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
