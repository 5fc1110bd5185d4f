package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecipeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "recipehub", Name: "recipe_operations_total", Help: "Number of recipe operations by operation and error kind."},
		[]string{"operation", "outcome"},
	)
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "recipehub", Name: "store_call_duration_seconds", Help: "Latency of recipe store calls.", Buckets: prometheus.DefBuckets},
		[]string{"operation"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "recipehub", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "recipehub", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RecipeOperations)
	reg.MustRegister(StoreLatency)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
