package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kannammal-agro/pricing-system/internal/api/metrics"
	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

// SubmissionHandler handles HTTP requests for submission CRUD and views.
type SubmissionHandler struct {
	submissions ports.SubmissionService
	queries     ports.QueryService
}

func NewSubmissionHandler(submissions ports.SubmissionService, queries ports.QueryService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, queries: queries}
}

// Create handles POST /v1/submissions.
//
// @Summary      Create a price submission
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSubmissionRequest  true  "Submission details"
// @Success      201   {object}  submissionResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/submissions [post]
func (h *SubmissionHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createSubmissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}

	sub, err := h.submissions.Create(c.Request().Context(), ports.CreateSubmissionInput{
		Actor:        actor,
		Date:         date,
		FirmCode:     req.FirmCode,
		CategoryCode: req.CategoryCode,
		Product: domain.ProductRef{
			ID:           req.Product.ID,
			Name:         req.Product.Name,
			CategoryCode: req.Product.CategoryCode,
		},
		Farmer: domain.FarmerRef{
			ID:           req.Farmer.ID,
			Name:         req.Farmer.Name,
			LocationCode: req.Farmer.LocationCode,
		},
		LocationCode: req.LocationCode,
		PricePerUnit: req.PricePerUnit,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.SubmissionsCreatedTotal.WithLabelValues(sub.FirmCode).Inc()
	return c.JSON(http.StatusCreated, toSubmissionResponse(sub))
}

// Get handles GET /v1/submissions/:id.
//
// @Summary      Get a submission by id
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Submission id"
// @Success      200  {object}  submissionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/submissions/{id} [get]
func (h *SubmissionHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	sub, err := h.queries.Get(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

// List handles GET /v1/submissions with the actor's scope enforced.
//
// @Summary      List submissions visible to the caller
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "PENDING, APPROVED or CANCELLED"
// @Param        category  query  string  false  "Category code"
// @Param        product   query  string  false  "Product id"
// @Param        from      query  string  false  "Date lower bound (YYYY-MM-DD)"
// @Param        to        query  string  false  "Date upper bound (YYYY-MM-DD)"
// @Param        page      query  int     false  "1-based page"
// @Param        limit     query  int     false  "page size (max 100)"
// @Success      200  {object}  listResponse
// @Router       /v1/submissions [get]
func (h *SubmissionHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	in := ports.ListSubmissionsInput{
		Actor:        actor,
		Status:       c.QueryParam("status"),
		CategoryCode: c.QueryParam("category"),
		ProductID:    c.QueryParam("product"),
		Page:         page,
		Limit:        limit,
	}
	if from := c.QueryParam("from"); from != "" {
		if in.DateFrom, err = time.Parse("2006-01-02", from); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if in.DateTo, err = time.Parse("2006-01-02", to); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
	}

	res, err := h.queries.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(res.Items, res.Total, res.Page, res.Limit, res.TotalPages))
}

// Update handles PUT /v1/submissions/:id, the buyer edit of a pending
// submission.
//
// @Summary      Update a pending submission
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Submission id"
// @Param        body  body      updateSubmissionRequest  true  "Editable fields"
// @Success      200   {object}  submissionResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/submissions/{id} [put]
func (h *SubmissionHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateSubmissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	sub, err := h.submissions.Update(c.Request().Context(), ports.UpdateSubmissionInput{
		SubmissionID: c.Param("id"),
		Actor:        actor,
		PricePerUnit: req.PricePerUnit,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

// Delete handles DELETE /v1/submissions/:id.
//
// @Summary      Delete a pending submission
// @Tags         submissions
// @Security     BearerAuth
// @Param        id  path  string  true  "Submission id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.submissions.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/reports/approval-stats. Non-admin actors are always
// scoped to their own firm.
//
// @Summary      Approval statistics
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        firm  query  string  false  "Firm code (admins only)"
// @Param        from  query  string  false  "Date lower bound (YYYY-MM-DD)"
// @Param        to    query  string  false  "Date upper bound (YYYY-MM-DD)"
// @Success      200  {object}  ports.ApprovalStats
// @Router       /v1/reports/approval-stats [get]
func (h *SubmissionHandler) Stats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	in := ports.StatsInput{FirmCode: c.QueryParam("firm")}
	if !domain.IsAdmin(actor) {
		in.FirmCode = actor.FirmCode
	}
	if from := c.QueryParam("from"); from != "" {
		if in.DateFrom, err = time.Parse("2006-01-02", from); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if in.DateTo, err = time.Parse("2006-01-02", to); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
	}

	stats, err := h.queries.Stats(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
