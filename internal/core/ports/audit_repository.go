package ports

import (
	"context"
	"time"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// ApprovalEvent is the structured audit record of one successful workflow
// transition.
type ApprovalEvent struct {
	SubmissionID string                  `json:"submission_id" bson:"submission_id"`
	ActorID      string                  `json:"actor_id" bson:"actor_id"`
	FromStatus   domain.SubmissionStatus `json:"from_status" bson:"from_status"`
	ToStatus     domain.SubmissionStatus `json:"to_status" bson:"to_status"`
	NewVersion   int64                   `json:"new_version" bson:"new_version"`
	At           time.Time               `json:"at" bson:"at"`
}

// AuditRepository receives one event per successful transition. Failures to
// record are logged by the caller, never surfaced as transition failures.
type AuditRepository interface {
	InsertTransition(ctx context.Context, e *ApprovalEvent) error
}
