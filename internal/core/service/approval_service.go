package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

// SubmissionLocker abstracts the exclusive per-submission lock (Redis).
// Lock blocks up to the locker's wait budget; when the lock cannot be
// acquired in time it returns domain.ErrBusy, which callers may retry. The
// returned release function must be called once the transition committed or
// failed.
type SubmissionLocker interface {
	Lock(ctx context.Context, submissionID string) (release func(), err error)
}

type approvalService struct {
	repo   ports.SubmissionRepository
	audit  ports.AuditRepository
	locker SubmissionLocker
	log    zerolog.Logger
}

// NewApprovalService returns the approval state machine implementation.
func NewApprovalService(
	repo ports.SubmissionRepository,
	audit ports.AuditRepository,
	locker SubmissionLocker,
	log zerolog.Logger,
) ports.ApprovalService {
	return &approvalService{repo: repo, audit: audit, locker: locker, log: log}
}

// Approve transitions a submission to APPROVED.
//
// Precondition order is fixed: lock, existence, role, optimistic version,
// status, firm scope, structural invariants. All mutation happens only after
// every check passed, so a rejected call never leaves partial state.
func (s *approvalService) Approve(ctx context.Context, in ports.ApproveInput) (*domain.Submission, error) {
	unlock, err := s.locker.Lock(ctx, in.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("approve: %w", err)
	}
	defer unlock()

	sub, err := s.repo.FindByID(ctx, in.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("approve: %w", err)
	}

	if !domain.HasApprovalRole(in.Actor) {
		return nil, fmt.Errorf("approve: %w", domain.ErrForbidden)
	}

	if in.ExpectedVersion != nil && *in.ExpectedVersion != sub.ApprovalVersion {
		return nil, &domain.VersionConflictError{Expected: *in.ExpectedVersion, Actual: sub.ApprovalVersion}
	}

	if sub.Status == domain.StatusApproved {
		return nil, fmt.Errorf("approve: %w", domain.ErrAlreadyApproved)
	}
	if sub.Status == domain.StatusCancelled {
		// Re-approval of a cancelled submission is permitted.
		s.log.Info().Str("submission_id", sub.ID).Msg("re-approving previously cancelled submission")
	}

	if !in.Actor.IsSuperuser {
		if in.Actor.FirmCode == "" || in.Actor.FirmCode != sub.FirmCode {
			return nil, fmt.Errorf("approve: %w", domain.ErrFirmMismatch)
		}
	}

	if err := domain.Validate(sub); err != nil {
		return nil, fmt.Errorf("approve: %w", err)
	}

	now := time.Now().UTC()
	updated, err := s.commit(ctx, sub, ports.ApprovalUpdate{
		Status:      domain.StatusApproved,
		ApprovedBy:  in.Actor.ID,
		ApprovedAt:  &now,
		FromVersion: sub.ApprovalVersion,
		BumpVersion: true,
	}, in.Actor)
	if err != nil {
		return nil, fmt.Errorf("approve: %w", err)
	}

	s.log.Info().
		Str("submission_id", updated.ID).
		Str("actor_id", in.Actor.ID).
		Int64("version", updated.ApprovalVersion).
		Msg("submission approved")

	return updated, nil
}

// CancelApproval transitions an APPROVED submission to CANCELLED, clearing
// the approver fields. Same authority and version checks as Approve.
func (s *approvalService) CancelApproval(ctx context.Context, in ports.ApproveInput) (*domain.Submission, error) {
	unlock, err := s.locker.Lock(ctx, in.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("cancel approval: %w", err)
	}
	defer unlock()

	sub, err := s.repo.FindByID(ctx, in.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("cancel approval: %w", err)
	}

	if !domain.HasApprovalRole(in.Actor) {
		return nil, fmt.Errorf("cancel approval: %w", domain.ErrForbidden)
	}

	if in.ExpectedVersion != nil && *in.ExpectedVersion != sub.ApprovalVersion {
		return nil, &domain.VersionConflictError{Expected: *in.ExpectedVersion, Actual: sub.ApprovalVersion}
	}

	if sub.Status != domain.StatusApproved {
		return nil, fmt.Errorf("cancel approval: %w", domain.ErrNotApproved)
	}

	if !in.Actor.IsSuperuser {
		if in.Actor.FirmCode == "" || in.Actor.FirmCode != sub.FirmCode {
			return nil, fmt.Errorf("cancel approval: %w", domain.ErrFirmMismatch)
		}
	}

	updated, err := s.commit(ctx, sub, ports.ApprovalUpdate{
		Status:      domain.StatusCancelled,
		FromVersion: sub.ApprovalVersion,
		BumpVersion: true,
	}, in.Actor)
	if err != nil {
		return nil, fmt.Errorf("cancel approval: %w", err)
	}

	s.log.Info().
		Str("submission_id", updated.ID).
		Str("actor_id", in.Actor.ID).
		Int64("version", updated.ApprovalVersion).
		Msg("approval cancelled")

	return updated, nil
}

// Disapprove reverts an APPROVED submission directly to PENDING. Role check
// only, no firm scoping, no optimistic-version parameter, and the approval
// version stays unchanged.
func (s *approvalService) Disapprove(ctx context.Context, submissionID string, actor domain.Actor) (*domain.Submission, error) {
	unlock, err := s.locker.Lock(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("disapprove: %w", err)
	}
	defer unlock()

	sub, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("disapprove: %w", err)
	}

	if !domain.CanDisapprove(actor) {
		return nil, fmt.Errorf("disapprove: %w", domain.ErrForbidden)
	}

	if sub.Status != domain.StatusApproved {
		return nil, fmt.Errorf("disapprove: %w", domain.ErrNotApproved)
	}

	updated, err := s.commit(ctx, sub, ports.ApprovalUpdate{
		Status:      domain.StatusPending,
		FromVersion: sub.ApprovalVersion,
		BumpVersion: false,
	}, actor)
	if err != nil {
		return nil, fmt.Errorf("disapprove: %w", err)
	}

	s.log.Info().
		Str("submission_id", updated.ID).
		Str("actor_id", actor.ID).
		Msg("approval reverted to pending")

	return updated, nil
}

// ListApprovable returns the pending submissions the actor may act on:
// everything for superusers and admins, the own firm's for business heads,
// nothing for anyone else. Callers needing a deterministic order must sort.
func (s *approvalService) ListApprovable(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.Submission, int64, error) {
	filter := ports.ListSubmissionsFilter{
		Statuses: []domain.SubmissionStatus{domain.StatusPending},
		Page:     page,
		Limit:    limit,
	}

	switch {
	case domain.IsAdmin(actor):
		// no firm filter
	case actor.Role == domain.RoleBusinessHead && actor.FirmCode != "":
		filter.FirmCode = actor.FirmCode
	default:
		return []*domain.Submission{}, 0, nil
	}

	return s.repo.List(ctx, filter)
}

// commit applies the transition via the repository's version CAS and records
// the audit event. On a CAS miss the current state is re-read so the error
// carries both versions; an audit insert failure is logged, never fatal.
func (s *approvalService) commit(ctx context.Context, sub *domain.Submission, u ports.ApprovalUpdate, actor domain.Actor) (*domain.Submission, error) {
	updated, err := s.repo.UpdateApproval(ctx, sub.ID, u)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			if current, findErr := s.repo.FindByID(ctx, sub.ID); findErr == nil {
				return nil, &domain.VersionConflictError{Expected: u.FromVersion, Actual: current.ApprovalVersion}
			}
		}
		return nil, err
	}

	event := &ports.ApprovalEvent{
		SubmissionID: updated.ID,
		ActorID:      actor.ID,
		FromStatus:   sub.Status,
		ToStatus:     updated.Status,
		NewVersion:   updated.ApprovalVersion,
		At:           time.Now().UTC(),
	}
	if err := s.audit.InsertTransition(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("submission_id", updated.ID).Msg("failed to record approval event")
	}

	return updated, nil
}
