// Package metrics registers the service's Prometheus collectors and the HTTP
// middleware that feeds them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pantry",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pantry",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pantry",
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	searchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pantry",
			Name:      "search_requests_total",
			Help:      "Fuzzy searches served, by record kind",
		},
		[]string{"entity"},
	)

	searchCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pantry",
			Name:      "search_candidates",
			Help:      "Records scored per fuzzy search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"entity"},
	)

	searchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pantry",
			Name:      "search_results",
			Help:      "Records returned per fuzzy search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		},
		[]string{"entity"},
	)
)

// ObserveSearch records one search over candidates records that returned
// results of them.
func ObserveSearch(entity string, candidates, results int) {
	searchRequestsTotal.WithLabelValues(entity).Inc()
	searchCandidates.WithLabelValues(entity).Observe(float64(candidates))
	searchResults.WithLabelValues(entity).Observe(float64(results))
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count, latency and concurrency. Requests are
// labelled by the ServeMux pattern that matched, so it must wrap the mux
// without replacing the *http.Request on the way in.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
