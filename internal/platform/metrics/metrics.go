// Package metrics holds the process Prometheus collectors and the /metrics handler
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ladderbot"

var (
	// DUPRRequests counts rating service calls by endpoint and outcome (ok, transport, status, decode)
	DUPRRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dupr",
			Name:      "requests_total",
			Help:      "Rating service requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	// DUPRLatency observes rating service round trips
	DUPRLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dupr",
			Name:      "request_duration_seconds",
			Help:      "Rating service request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// VerifyFlows counts finished verification conversations by terminal state
	VerifyFlows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "flows_total",
			Help:      "Verification conversations by terminal state.",
		},
		[]string{"state"},
	)

	// VerifyActive is the number of conversations currently in flight
	VerifyActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "active_flows",
			Help:      "Verification conversations in flight.",
		},
	)

	// SideEffectFailures counts swallowed best-effort chat operations
	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "side_effect_failures_total",
			Help:      "Best-effort chat side effects that failed and were logged.",
		},
		[]string{"op"},
	)

	// ProfileWrites counts profile store writes by kind and outcome
	ProfileWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profiles",
			Name:      "writes_total",
			Help:      "Profile store writes by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// SweepRuns counts sweeps by outcome (ok, failed, rejected)
	SweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Leaderboard sweeps by outcome.",
		},
		[]string{"outcome"},
	)

	// SweepMembers counts per-member sweep results (refreshed, unchanged, bootstrapped, unmatched, skipped, failed, unsuccessful)
	SweepMembers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "members_total",
			Help:      "Per-member sweep results.",
		},
		[]string{"result"},
	)

	// SweepDuration observes whole sweep wall time
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Leaderboard sweep wall time.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)

// APIRequests counts ops API requests by module, method and status code
var APIRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Ops API requests by module, method and status code.",
	},
	[]string{"module", "method", "code"},
)

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }

// Instrument counts requests through one module's routes into APIRequests
func Instrument(module string) func(http.Handler) http.Handler {
	counter := APIRequests.MustCurryWith(prometheus.Labels{"module": module})
	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerCounter(counter, next)
	}
}
