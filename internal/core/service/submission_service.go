package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

type submissionService struct {
	repo ports.SubmissionRepository
	log  zerolog.Logger
}

// NewSubmissionService returns the write-side service for submission
// creation and buyer edits.
func NewSubmissionService(repo ports.SubmissionRepository, log zerolog.Logger) ports.SubmissionService {
	return &submissionService{repo: repo, log: log}
}

// Create inserts a new PENDING submission owned by the acting buyer.
func (s *submissionService) Create(ctx context.Context, in ports.CreateSubmissionInput) (*domain.Submission, error) {
	now := time.Now().UTC()
	sub := &domain.Submission{
		ID:           generateSubmissionID(),
		Date:         in.Date,
		FirmCode:     in.FirmCode,
		CategoryCode: in.CategoryCode,
		Product:      in.Product,
		Farmer:       in.Farmer,
		LocationCode: in.LocationCode,
		BuyerID:      in.Actor.ID,
		PricePerUnit: in.PricePerUnit,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		Notes:        in.Notes,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if sub.Unit == "" {
		sub.Unit = domain.UnitKg
	}
	if sub.Date.IsZero() {
		sub.Date = now
	}
	// The unique index keys on the stored date value, so it is kept at day
	// precision. A defaulted date must collide with an explicit one for the
	// same day.
	y, m, d := sub.Date.UTC().Date()
	sub.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if err := domain.Validate(sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.log.Info().
		Str("submission_id", sub.ID).
		Str("buyer_id", sub.BuyerID).
		Str("firm_code", sub.FirmCode).
		Str("product", sub.Product.Name).
		Msg("submission created")

	return sub, nil
}

// Update applies buyer edits to a pending submission. Scope attributes are
// immutable; only price, quantity, unit and notes change.
func (s *submissionService) Update(ctx context.Context, in ports.UpdateSubmissionInput) (*domain.Submission, error) {
	sub, err := s.repo.FindByID(ctx, in.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	if !domain.CanEdit(in.Actor, *sub) {
		return nil, fmt.Errorf("update submission: %w", domain.ErrForbidden)
	}

	sub.PricePerUnit = in.PricePerUnit
	sub.Quantity = in.Quantity
	if in.Unit != "" {
		sub.Unit = in.Unit
	}
	sub.Notes = in.Notes
	sub.UpdatedAt = time.Now().UTC()

	if err := domain.Validate(sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	if err := s.repo.UpdateFields(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	s.log.Info().Str("submission_id", sub.ID).Str("actor_id", in.Actor.ID).Msg("submission updated")
	return sub, nil
}

// Delete removes a pending submission owned by the acting buyer.
func (s *submissionService) Delete(ctx context.Context, submissionID string, actor domain.Actor) error {
	sub, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}

	if !domain.CanEdit(actor, *sub) {
		return fmt.Errorf("delete submission: %w", domain.ErrForbidden)
	}
	if sub.Status != domain.StatusPending {
		return fmt.Errorf("delete submission: %w", domain.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, submissionID); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}

	s.log.Info().Str("submission_id", submissionID).Str("actor_id", actor.ID).Msg("submission deleted")
	return nil
}

// generateSubmissionID returns a unique id in the format SUB-XXXXXXXXXXXX.
func generateSubmissionID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("SUB-%012X", time.Now().UnixNano())
	}
	return fmt.Sprintf("SUB-%012X", b)
}
