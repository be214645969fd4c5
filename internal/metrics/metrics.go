// Package metrics defines and registers all custom Prometheus metrics for
// the portfolio API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// --- Session metrics ---

// SessionsResolvedTotal counts session resolution outcomes.
// Label:
//   - result: "ok", "token_invalid", "username_not_found", "identity_mismatch"
var SessionsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_resolved_total",
		Help:      "Total number of bearer-token resolution attempts, by result.",
	},
	[]string{"result"},
)

// PermissionDeniedTotal counts failed authorization decisions.
// Label:
//   - action: the denied operation (e.g. "edit_language", "delete_language")
var PermissionDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denied_total",
		Help:      "Total number of denied authorization decisions, by action.",
	},
	[]string{"action"},
)

// --- Reconciliation metrics ---

// ReconciliationsTotal counts completed reconciliation passes over the
// shared language catalog.
// Label:
//   - outcome: "created", "in_place", "forked", "noop", "detached", "deleted"
var ReconciliationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciliations_total",
		Help:      "Total number of completed shared-language reconciliations, by outcome.",
	},
	[]string{"outcome"},
)

// ReconciliationConflictsTotal counts snapshot invalidations that forced a
// retry with a fresh snapshot.
var ReconciliationConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciliation_conflicts_total",
		Help:      "Total number of optimistic-concurrency conflicts during reconciliation.",
	},
)

// ReconciliationDuration measures one reconciliation attempt end-to-end,
// lock acquisition included.
// Label:
//   - outcome: same values as ReconciliationsTotal, or "error"
var ReconciliationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reconciliation_duration_seconds",
		Help:      "Duration of shared-language reconciliation from lock to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
