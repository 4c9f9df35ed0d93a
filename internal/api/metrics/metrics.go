// Package metrics defines and registers all custom Prometheus metrics for the
// habit tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default Prometheus registry at package init;
// the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "habits"

// HabitsCreatedTotal counts newly created habits.
// Label:
//   - category: the user-supplied habit category (e.g. "fitness")
var HabitsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of habits created, by category.",
	},
	[]string{"category"},
)

// CompletionTogglesTotal counts completion toggles.
// Label:
//   - action: "completed" (record created) or "uncompleted" (record removed)
var CompletionTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_toggles_total",
		Help:      "Total number of completion toggles, by resulting action.",
	},
	[]string{"action"},
)

// StatsRequestDuration measures how long a statistics aggregation takes.
var StatsRequestDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_request_duration_seconds",
		Help:      "Duration of user statistics aggregation requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// StreakRefreshTotal counts nightly per-habit stats refreshes.
// Label:
//   - result: "ok" or "error"
var StreakRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "streak_refresh_total",
		Help:      "Total number of nightly derived-stats refreshes, by result.",
	},
	[]string{"result"},
)
