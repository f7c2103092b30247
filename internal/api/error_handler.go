package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. The
// optional fields carry structured diagnostics for version conflicts and
// validation failures.
type errorResponse struct {
	Error           string `json:"error"`
	Field           string `json:"field,omitempty"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
	ActualVersion   *int64 `json:"actual_version,omitempty"`
	Retryable       bool   `json:"retryable,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to clients.
//   - Renders a consistent JSON envelope: {"error": "<message>", ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Version conflicts carry both versions so the UI can reload and retry.
	var vc *domain.VersionConflictError
	if errors.As(err, &vc) {
		return http.StatusConflict, errorResponse{
			Error:           vc.Error(),
			ExpectedVersion: &vc.Expected,
			ActualVersion:   &vc.Actual,
		}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Error(), Field: ve.Field}
	}

	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound, errorResponse{Error: "submission not found"}
	case errors.Is(err, domain.ErrActorNotFound):
		return http.StatusNotFound, errorResponse{Error: "actor not found"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrFirmMismatch):
		return http.StatusForbidden, errorResponse{Error: "submission belongs to another firm"}
	case errors.Is(err, domain.ErrAlreadyApproved):
		return http.StatusConflict, errorResponse{Error: "submission is already approved"}
	case errors.Is(err, domain.ErrNotApproved):
		return http.StatusConflict, errorResponse{Error: "submission is not approved"}
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusUnprocessableEntity, errorResponse{Error: "duplicate submission"}
	case errors.Is(err, domain.ErrBusy):
		return http.StatusServiceUnavailable, errorResponse{Error: "submission is busy, retry shortly", Retryable: true}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrActorExists):
		return http.StatusConflict, errorResponse{Error: "actor already exists"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
