package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type queryService struct {
	repo ports.SubmissionRepository
	log  zerolog.Logger
}

// NewQueryService returns the read-only view service over submissions.
func NewQueryService(repo ports.SubmissionRepository, log zerolog.Logger) ports.QueryService {
	return &queryService{repo: repo, log: log}
}

// Get returns one submission if the actor may view it.
func (s *queryService) Get(ctx context.Context, submissionID string, actor domain.Actor) (*domain.Submission, error) {
	sub, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if !domain.CanViewSubmission(actor, *sub) {
		return nil, fmt.Errorf("get submission: %w", domain.ErrForbidden)
	}
	return sub, nil
}

// List returns a page of submissions with the actor's scope enforced on top
// of the caller's filters: buyers see their own, business and category heads
// their firm's (category heads further narrowed to scoped categories),
// admins everything.
func (s *queryService) List(ctx context.Context, in ports.ListSubmissionsInput) (*ports.ListSubmissionsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListSubmissionsFilter{
		CategoryCode: in.CategoryCode,
		ProductID:    in.ProductID,
		DateFrom:     in.DateFrom,
		DateTo:       in.DateTo,
		Page:         page,
		Limit:        limit,
	}
	if in.Status != "" {
		filter.Statuses = []domain.SubmissionStatus{domain.SubmissionStatus(in.Status)}
	}

	actor := in.Actor
	switch {
	case domain.IsAdmin(actor):
		// unscoped
	case actor.Role == domain.RoleBuyer:
		filter.BuyerID = actor.ID
		filter.FirmCode = actor.FirmCode
	case actor.Role == domain.RoleCategoryHead:
		filter.FirmCode = actor.FirmCode
		if actor.CategoryScope != nil && len(actor.CategoryScope.Categories) > 0 {
			filter.CategoriesIn = actor.CategoryScope.Categories
		}
	case actor.Role == domain.RoleBusinessHead:
		filter.FirmCode = actor.FirmCode
	default:
		return &ports.ListSubmissionsResult{Items: []*domain.Submission{}, Page: page, Limit: limit}, nil
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	return &ports.ListSubmissionsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Stats aggregates submission counts by status plus the approval rate,
// rounded to two decimals.
func (s *queryService) Stats(ctx context.Context, in ports.StatsInput) (*ports.ApprovalStats, error) {
	counts, err := s.repo.CountByStatus(ctx, ports.StatsFilter{
		FirmCode: in.FirmCode,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
	})
	if err != nil {
		return nil, fmt.Errorf("approval stats: %w", err)
	}

	rate := 0.0
	if counts.Total > 0 {
		rate = math.Round(float64(counts.Approved)/float64(counts.Total)*100*100) / 100
	}

	return &ports.ApprovalStats{
		Total:        counts.Total,
		Approved:     counts.Approved,
		Pending:      counts.Pending,
		Cancelled:    counts.Cancelled,
		ApprovalRate: rate,
	}, nil
}
