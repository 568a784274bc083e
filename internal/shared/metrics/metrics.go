package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth gate outcomes.
const (
	AuthPublic        = "public"
	AuthAllowed       = "allowed"
	AuthMissingToken  = "missing_token"
	AuthInvalidToken  = "invalid_token"
	AuthUpstreamError = "upstream_unavailable"
)

var (
	registry = prometheus.NewRegistry()

	authDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume_service",
		Name:      "auth_decisions_total",
		Help:      "Authorization gate decisions by outcome.",
	}, []string{"outcome"})

	publicKeyFetch = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resume_service",
		Name:      "public_key_fetch_seconds",
		Help:      "Latency of public key requests to the identity authority.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"result"})

	improvements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume_service",
		Name:      "improvements_total",
		Help:      "Resume improvement attempts by result.",
	}, []string{"result"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resume_service",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		authDecisions,
		publicKeyFetch,
		improvements,
		httpDuration,
	)
}

// IncAuthDecision counts one gate decision.
func IncAuthDecision(outcome string) {
	authDecisions.WithLabelValues(outcome).Inc()
}

// ObservePublicKeyFetch records one identity authority round trip.
func ObservePublicKeyFetch(d time.Duration, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	publicKeyFetch.WithLabelValues(result).Observe(d.Seconds())
}

// IncImprovement counts an improvement attempt by result (ok, not_found, invalid_timezone, error).
func IncImprovement(result string) {
	improvements.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records request latency. route is the matched pattern, not the raw path.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Registry exposes the collector registry for tests.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
