package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/submissions/SUB-1/approve", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
	}{
		{domain.ErrSubmissionNotFound, http.StatusNotFound},
		{domain.ErrActorNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrFirmMismatch, http.StatusForbidden},
		{domain.ErrAlreadyApproved, http.StatusConflict},
		{domain.ErrNotApproved, http.StatusConflict},
		{domain.ErrVersionConflict, http.StatusConflict},
		{domain.ErrDuplicateSubmission, http.StatusUnprocessableEntity},
		{domain.ErrBusy, http.StatusServiceUnavailable},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrActorExists, http.StatusConflict},
	}
	for _, tc := range cases {
		// Services wrap with operation context; the mapping must survive it.
		code, _ := renderError(t, fmt.Errorf("approve: %w", tc.err))
		if code != tc.wantCode {
			t.Errorf("%v: want %d, got %d", tc.err, tc.wantCode, code)
		}
	}
}

func TestErrorHandler_VersionConflictCarriesVersions(t *testing.T) {
	code, body := renderError(t, &domain.VersionConflictError{Expected: 2, Actual: 5})
	if code != http.StatusConflict {
		t.Fatalf("want 409, got %d", code)
	}
	if body.ExpectedVersion == nil || *body.ExpectedVersion != 2 {
		t.Errorf("expected_version: want 2, got %v", body.ExpectedVersion)
	}
	if body.ActualVersion == nil || *body.ActualVersion != 5 {
		t.Errorf("actual_version: want 5, got %v", body.ActualVersion)
	}
}

func TestErrorHandler_ValidationErrorCarriesField(t *testing.T) {
	code, body := renderError(t, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", code)
	}
	if body.Field != "quantity" {
		t.Errorf("field: want quantity, got %q", body.Field)
	}
}

func TestErrorHandler_BusyIsRetryable(t *testing.T) {
	code, body := renderError(t, domain.ErrBusy)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", code)
	}
	if !body.Retryable {
		t.Error("busy must be flagged retryable")
	}
}

func TestErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", code)
	}
	if body.Error != "invalid payload" {
		t.Errorf("message: want %q, got %q", "invalid payload", body.Error)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque500(t *testing.T) {
	code, body := renderError(t, errors.New("mongo: socket closed unexpectedly"))
	if code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", code)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal details must not leak, got %q", body.Error)
	}
}
