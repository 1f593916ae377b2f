// Package metrics exposes the Prometheus collectors recorded by the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "usergraph"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by method and status code.",
	}, []string{"method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	resolverDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "resolver_duration_seconds",
		Help:      "GraphQL resolver latency, by resolver and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resolver", "outcome"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// methodOther labels requests whose method is not a standard HTTP verb.
const methodOther = "other"

// methodLabel bounds the method label to the standard verbs so client input
// cannot create new series.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	default:
		return methodOther
	}
}

// ObserveHTTP records a completed HTTP request.
func ObserveHTTP(method string, status int, duration time.Duration) {
	method = methodLabel(method)
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveResolver records a completed resolver invocation.
func ObserveResolver(name, outcome string, duration time.Duration) {
	resolverDuration.WithLabelValues(name, outcome).Observe(duration.Seconds())
}

// IncRateLimited counts a request rejected by the rate limiter.
func IncRateLimited() {
	rateLimited.Inc()
}
