package ports

import (
	"context"
	"time"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// ListSubmissionsInput carries the caller-facing list parameters. The query
// service derives the enforced firm/buyer scope from the actor.
type ListSubmissionsInput struct {
	Actor        domain.Actor
	CategoryCode string
	ProductID    string
	Status       string
	DateFrom     time.Time
	DateTo       time.Time
	Page         int
	Limit        int
}

// ListSubmissionsResult is one page of scoped submissions.
type ListSubmissionsResult struct {
	Items      []*domain.Submission
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// StatsInput narrows the approval statistics report.
type StatsInput struct {
	FirmCode string
	DateFrom time.Time
	DateTo   time.Time
}

// ApprovalStats is the reporting view over submission statuses.
type ApprovalStats struct {
	Total        int64   `json:"total_submissions"`
	Approved     int64   `json:"approved_submissions"`
	Pending      int64   `json:"pending_submissions"`
	Cancelled    int64   `json:"cancelled_submissions"`
	ApprovalRate float64 `json:"approval_rate"`
}

// QueryService is the read-only collaborator: permission-scoped views over
// submissions. It never mutates workflow state.
type QueryService interface {
	Get(ctx context.Context, submissionID string, actor domain.Actor) (*domain.Submission, error)
	List(ctx context.Context, in ListSubmissionsInput) (*ListSubmissionsResult, error)
	Stats(ctx context.Context, in StatsInput) (*ApprovalStats, error)
}
