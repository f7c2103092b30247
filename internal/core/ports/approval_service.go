package ports

import (
	"context"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// ApproveInput carries the parameters of one approve or cancel-approval call.
type ApproveInput struct {
	SubmissionID string
	Actor        domain.Actor
	// ExpectedVersion, when non-nil, is the optimistic-lock guard: the call
	// fails with a version conflict if the stored approval version differs.
	ExpectedVersion *int64
}

// ApprovalService is the approval state machine over submissions.
//
// Every transition acquires an exclusive per-submission lock, re-checks all
// preconditions against fresh state, and commits atomically. A rejected
// precondition returns a typed domain error and leaves the submission
// untouched.
type ApprovalService interface {
	// Approve transitions PENDING or CANCELLED to APPROVED. Re-approving a
	// cancelled submission is permitted and logged, not an error.
	Approve(ctx context.Context, in ApproveInput) (*domain.Submission, error)

	// CancelApproval transitions APPROVED to CANCELLED, clearing the
	// approver fields.
	CancelApproval(ctx context.Context, in ApproveInput) (*domain.Submission, error)

	// Disapprove reverts APPROVED directly to PENDING. Distinct from
	// CancelApproval: role check only, no optimistic-version parameter, and
	// the approval version is left unchanged.
	Disapprove(ctx context.Context, submissionID string, actor domain.Actor) (*domain.Submission, error)

	// ListApprovable returns the pending submissions the actor may approve:
	// all of them for superusers and admins, the firm's for business heads,
	// none for anyone else.
	ListApprovable(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.Submission, int64, error)
}

// BulkItemResult is the outcome of one submission inside a bulk approval.
type BulkItemResult struct {
	SubmissionID string
	Err          error
}

// BulkResult aggregates a whole bulk approval batch. One failing item never
// rolls back the others: each approval is its own transaction.
type BulkResult struct {
	Succeeded int
	Failed    int
	Items     []BulkItemResult
}
