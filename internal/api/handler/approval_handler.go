package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kannammal-agro/pricing-system/internal/api/metrics"
	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

// BulkApprover is the interface the handler uses to run bulk batches.
type BulkApprover interface {
	ApproveBatch(ctx context.Context, actor domain.Actor, submissionIDs []string) *ports.BulkResult
}

// ApprovalHandler handles HTTP requests for approval workflow operations.
type ApprovalHandler struct {
	service ports.ApprovalService
	bulk    BulkApprover
}

func NewApprovalHandler(service ports.ApprovalService, bulk BulkApprover) *ApprovalHandler {
	return &ApprovalHandler{service: service, bulk: bulk}
}

// Approve handles POST /v1/submissions/:id/approve.
//
// @Summary      Approve a submission
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true   "Submission id"
// @Param        body  body      approveRequest  false  "Optional optimistic-lock guard"
// @Success      200   {object}  submissionResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/submissions/{id}/approve [post]
func (h *ApprovalHandler) Approve(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req approveRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	sub, err := h.service.Approve(c.Request().Context(), ports.ApproveInput{
		SubmissionID:    c.Param("id"),
		Actor:           actor,
		ExpectedVersion: req.ExpectedVersion,
	})
	observeTransition("approve", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

// CancelApproval handles POST /v1/submissions/:id/cancel-approval.
//
// @Summary      Cancel a submission's approval
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true   "Submission id"
// @Param        body  body      approveRequest  false  "Optional optimistic-lock guard"
// @Success      200   {object}  submissionResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/submissions/{id}/cancel-approval [post]
func (h *ApprovalHandler) CancelApproval(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req approveRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	sub, err := h.service.CancelApproval(c.Request().Context(), ports.ApproveInput{
		SubmissionID:    c.Param("id"),
		Actor:           actor,
		ExpectedVersion: req.ExpectedVersion,
	})
	observeTransition("cancel_approval", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

// Disapprove handles POST /v1/submissions/:id/disapprove. It reverts an
// approved submission to pending.
//
// @Summary      Revert an approved submission to pending
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Submission id"
// @Success      200  {object}  submissionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/submissions/{id}/disapprove [post]
func (h *ApprovalHandler) Disapprove(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	sub, err := h.service.Disapprove(c.Request().Context(), c.Param("id"), actor)
	observeTransition("disapprove", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

// BulkApprove handles POST /v1/approvals/bulk. It approves a set of
// submissions, accumulating per-item outcomes without aborting the batch.
//
// @Summary      Approve a batch of submissions
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkApproveRequest  true  "Submission ids"
// @Success      200   {object}  bulkApproveResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/approvals/bulk [post]
func (h *ApprovalHandler) BulkApprove(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req bulkApproveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	metrics.BulkBatchSize.Observe(float64(len(req.SubmissionIDs)))
	result := h.bulk.ApproveBatch(c.Request().Context(), actor, req.SubmissionIDs)

	resp := bulkApproveResponse{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Items:     make([]bulkItemResponse, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		out := bulkItemResponse{SubmissionID: item.SubmissionID, OK: item.Err == nil}
		if item.Err != nil {
			out.Error = item.Err.Error()
			metrics.BulkItemsTotal.WithLabelValues("failure").Inc()
		} else {
			metrics.BulkItemsTotal.WithLabelValues("success").Inc()
		}
		resp.Items = append(resp.Items, out)
	}

	return c.JSON(http.StatusOK, resp)
}

// ListPending handles GET /v1/approvals/pending, the submissions the actor
// may approve.
//
// @Summary      List pending approvals for the caller
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "1-based page"
// @Param        limit  query     int  false  "page size"
// @Success      200    {object}  listResponse
// @Router       /v1/approvals/pending [get]
func (h *ApprovalHandler) ListPending(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 25
	}

	items, total, err := h.service.ListApprovable(c.Request().Context(), actor, page, limit)
	if err != nil {
		return err
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, toListResponse(items, total, page, limit, totalPages))
}

// observeTransition records the metric outcome of one state machine call.
func observeTransition(action string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrVersionConflict):
		outcome = "version_conflict"
		metrics.VersionConflictsTotal.Inc()
	case errors.Is(err, domain.ErrAlreadyApproved):
		outcome = "already_approved"
	case errors.Is(err, domain.ErrNotApproved):
		outcome = "not_approved"
	case errors.Is(err, domain.ErrFirmMismatch):
		outcome = "firm_mismatch"
	case errors.Is(err, domain.ErrForbidden):
		outcome = "forbidden"
	case errors.Is(err, domain.ErrSubmissionNotFound):
		outcome = "not_found"
	case errors.Is(err, domain.ErrBusy):
		outcome = "busy"
		metrics.LockBusyTotal.Inc()
	default:
		outcome = "error"
	}
	metrics.ApprovalTransitionsTotal.WithLabelValues(action, outcome).Inc()
}
