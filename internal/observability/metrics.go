// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brightpath_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikeToggles counts like toggles by target kind and outcome.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brightpath_like_toggles_total",
		Help: "Total like toggles by target and result",
	}, []string{"target", "result"})

	// BatchLikeLookups counts batch like status requests by outcome.
	BatchLikeLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brightpath_batch_like_lookups_total",
		Help: "Total batch like status lookups by target and result",
	}, []string{"target", "result"})

	// ModerationTransitions counts comment moderation actions by outcome.
	ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brightpath_moderation_transitions_total",
		Help: "Total comment moderation transitions by action and result",
	}, []string{"action", "result"})

	// ViewIncrements counts server-side view increments by outcome.
	ViewIncrements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brightpath_view_increments_total",
		Help: "Total view increments by result",
	}, []string{"result"})

	// PageInvalidations counts stale-page markings by outcome.
	PageInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brightpath_page_invalidations_total",
		Help: "Total public page invalidations by result",
	}, []string{"result"})
)

// Result converts an error into the "ok"/"error" label used by the counters.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
