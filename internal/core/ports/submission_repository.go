package ports

import (
	"context"
	"time"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// ListSubmissionsFilter carries all query parameters for listing submissions.
// Firm and buyer scoping is always decided by the service layer, never by the
// caller-supplied query string.
type ListSubmissionsFilter struct {
	FirmCode     string                    // empty = no firm filter (admins)
	BuyerID      string                    // non-empty = scoped to one buyer
	CategoryCode string                    // optional: single category filter
	CategoriesIn []string                  // optional: category-head scope
	ProductID    string                    // optional
	Statuses     []domain.SubmissionStatus // optional: any of these statuses
	DateFrom     time.Time                 // optional: date >= DateFrom
	DateTo       time.Time                 // optional: date <= DateTo
	Page         int                       // 1-based
	Limit        int                       // capped at 100 by the service
}

// ApprovalUpdate describes one workflow transition to be committed with a
// compare-and-swap on the stored approval version. The store must apply the
// update only where the current approval_version equals FromVersion, and
// report domain.ErrVersionConflict otherwise.
type ApprovalUpdate struct {
	Status     domain.SubmissionStatus
	ApprovedBy string     // empty clears the field
	ApprovedAt *time.Time // nil clears the field
	// FromVersion is the version observed under the submission lock.
	FromVersion int64
	// BumpVersion increments approval_version by exactly 1 when true.
	// Disapprove keeps the counter unchanged.
	BumpVersion bool
}

// StatsFilter narrows approval statistics by firm and date range.
type StatsFilter struct {
	FirmCode string
	DateFrom time.Time
	DateTo   time.Time
}

// StatusCounts holds per-status submission totals.
type StatusCounts struct {
	Total     int64
	Pending   int64
	Approved  int64
	Cancelled int64
}

// SubmissionRepository defines persistence operations for submissions.
type SubmissionRepository interface {
	// Create inserts a new submission. Returns domain.ErrDuplicateSubmission
	// when the duplicate-prevention tuple already exists.
	Create(ctx context.Context, s *domain.Submission) error

	FindByID(ctx context.Context, id string) (*domain.Submission, error)

	// UpdateApproval commits a version-checked workflow transition and
	// returns the updated submission. Returns domain.ErrVersionConflict when
	// the stored version no longer equals u.FromVersion, and
	// domain.ErrSubmissionNotFound when the id does not exist.
	UpdateApproval(ctx context.Context, id string, u ApprovalUpdate) (*domain.Submission, error)

	// UpdateFields persists buyer-editable fields (price, quantity, unit,
	// notes) of a pending submission.
	UpdateFields(ctx context.Context, s *domain.Submission) error

	// Delete removes a submission. The service restricts this to pending
	// submissions owned by their buyer.
	Delete(ctx context.Context, id string) error

	// List returns a page of submissions matching filter and the total count.
	List(ctx context.Context, filter ListSubmissionsFilter) ([]*domain.Submission, int64, error)

	// CountByStatus aggregates per-status totals for reporting.
	CountByStatus(ctx context.Context, filter StatsFilter) (StatusCounts, error)
}
