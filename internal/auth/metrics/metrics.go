// Package metrics defines the Prometheus metrics exported by the auth
// service. It is the single source of truth for metric names, labels,
// and help strings; promauto registers everything with the default
// registry at init time.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// LoginAttempts counts login outcomes.
// Label:
//   - result: "success", "invalid", or "inactive"
var LoginAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// SessionsDiscarded counts stored sessions dropped during validation.
// Label:
//   - reason: "malformed" or "expired"
var SessionsDiscarded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_discarded_total",
		Help:      "Total number of stored sessions discarded as invalid.",
	},
	[]string{"reason"},
)

// AccountMutations counts administrative account changes.
// Label:
//   - op: "create", "update", "delete", or "change_password"
var AccountMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_mutations_total",
		Help:      "Total number of account mutations applied, by operation.",
	},
	[]string{"op"},
)

// RequestDuration measures HTTP handler latency.
// Labels:
//   - route:  the registered mux pattern (not the raw URL)
//   - status: numeric status code class written to the client
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "status"},
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a handler and observes its duration under the given
// route label.
func Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		RequestDuration.WithLabelValues(route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
