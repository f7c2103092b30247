// Package metrics defines and registers all custom Prometheus metrics for
// the price approval service. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pricing"

// ApprovalTransitionsTotal counts approval state machine calls.
// Labels:
//   - action: "approve", "cancel_approval" or "disapprove"
//   - outcome: "success", "forbidden", "firm_mismatch", "version_conflict",
//     "already_approved", "not_approved", "not_found", "busy" or "error"
var ApprovalTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "approval_transitions_total",
		Help:      "Total number of approval state machine calls, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// VersionConflictsTotal counts optimistic-lock mismatches surfaced to callers.
var VersionConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "version_conflicts_total",
		Help:      "Total number of approval version conflicts reported to callers.",
	},
)

// LockBusyTotal counts transitions rejected because the submission lock
// could not be acquired within the wait budget.
var LockBusyTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lock_busy_total",
		Help:      "Total number of transitions rejected due to submission lock contention.",
	},
)

// BulkBatchSize observes the number of submissions per bulk approval batch.
var BulkBatchSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bulk_batch_size",
		Help:      "Number of submissions per bulk approval request.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
	},
)

// BulkItemsTotal counts individual bulk approval items by result.
// Label:
//   - result: "success" or "failure"
var BulkItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_items_total",
		Help:      "Total number of bulk approval items, by result.",
	},
	[]string{"result"},
)

// SubmissionsCreatedTotal counts newly created submissions by firm.
var SubmissionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_created_total",
		Help:      "Total number of price submissions created, by firm.",
	},
	[]string{"firm_code"},
)
