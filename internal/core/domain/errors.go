package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrFirmMismatch        = errors.New("submission belongs to another firm")
	ErrAlreadyApproved     = errors.New("submission is already approved")
	ErrNotApproved         = errors.New("submission is not approved")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrVersionConflict     = errors.New("submission modified by another user")
	ErrInvalidSubmission   = errors.New("invalid submission")

	// ErrBusy signals lock contention on a submission. Unlike the business
	// errors above it is safe to retry with backoff.
	ErrBusy = errors.New("submission is locked by another operation")

	ErrActorNotFound      = errors.New("actor not found")
	ErrActorExists        = errors.New("actor already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// VersionConflictError carries both versions of an optimistic-lock mismatch
// so callers can reload and retry. errors.Is(err, ErrVersionConflict) holds.
type VersionConflictError struct {
	Expected int64
	Actual   int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("submission modified by another user: expected version %d, current version %d",
		e.Expected, e.Actual)
}

func (e *VersionConflictError) Unwrap() error { return ErrVersionConflict }

// ValidationError is a field-tagged structural invariant violation.
// errors.Is(err, ErrInvalidSubmission) holds.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSubmission }
