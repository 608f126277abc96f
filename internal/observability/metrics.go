package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "walk_companion", Name: "match_searches_total", Help: "Total walker eligibility searches"})
	MatchesTotal       = promauto.NewCounter(prometheus.CounterOpts{Namespace: "walk_companion", Name: "matches_total", Help: "Total accepted matches"})
	MatchLatency       = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "walk_companion", Name: "match_latency_seconds", Help: "Eligibility search latency seconds"})
	WalkersOnline      = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "walk_companion", Name: "walkers_online", Help: "Number of online walkers"})

	PaymentsVerifiedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "walk_companion", Name: "payments_verified_total", Help: "Total successfully verified payments"})
	PayoutsTotal          = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "walk_companion", Name: "payouts_total", Help: "Total payout attempts by resulting status"},
		[]string{"status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "walk_companion", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "walk_companion",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Instrument wraps a handler and records the request count and latency
// for every served route.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.status)
		HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(started).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
