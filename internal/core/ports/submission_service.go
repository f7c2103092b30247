package ports

import (
	"context"
	"time"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// CreateSubmissionInput carries all data needed to create a new submission.
// The acting buyer is taken from the authenticated actor, never the payload.
type CreateSubmissionInput struct {
	Actor        domain.Actor
	Date         time.Time
	FirmCode     string
	CategoryCode string
	Product      domain.ProductRef
	Farmer       domain.FarmerRef
	LocationCode string
	PricePerUnit float64
	Quantity     float64
	Unit         string
	Notes        string
}

// UpdateSubmissionInput carries the buyer-editable fields of a pending
// submission. Scope attributes are immutable after creation.
type UpdateSubmissionInput struct {
	SubmissionID string
	Actor        domain.Actor
	PricePerUnit float64
	Quantity     float64
	Unit         string
	Notes        string
}

// SubmissionService defines the write-side operations outside the approval
// state machine: creation and buyer edits of pending submissions.
type SubmissionService interface {
	Create(ctx context.Context, in CreateSubmissionInput) (*domain.Submission, error)
	Update(ctx context.Context, in UpdateSubmissionInput) (*domain.Submission, error)
	Delete(ctx context.Context, submissionID string, actor domain.Actor) error
}
