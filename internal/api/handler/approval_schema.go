package handler

import (
	"time"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// approveRequest is the optional body of an approve/cancel-approval call.
// ExpectedVersion, when present, is the optimistic-lock guard.
type approveRequest struct {
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

type bulkApproveRequest struct {
	SubmissionIDs []string `json:"submission_ids" validate:"required,min=1,dive,required"`
}

type bulkItemResponse struct {
	SubmissionID string `json:"submission_id"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
}

type bulkApproveResponse struct {
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Items     []bulkItemResponse `json:"items"`
}

// submissionResponse is the full submission view returned by approval and
// submission endpoints.
type submissionResponse struct {
	ID              string     `json:"id"`
	Date            string     `json:"date"`
	FirmCode        string     `json:"firm_code"`
	CategoryCode    string     `json:"category_code"`
	Product         productRef `json:"product"`
	Farmer          farmerRef  `json:"farmer"`
	LocationCode    string     `json:"location_code"`
	BuyerID         string     `json:"buyer_id"`
	PricePerUnit    float64    `json:"price_per_unit"`
	Quantity        float64    `json:"quantity"`
	Unit            string     `json:"unit"`
	Notes           string     `json:"notes,omitempty"`
	TotalValue      float64    `json:"total_value"`
	Status          string     `json:"status"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      string     `json:"approved_at,omitempty"`
	ApprovalVersion int64      `json:"approval_version"`
	CreatedAt       string     `json:"created_at"`
}

type productRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CategoryCode string `json:"category_code"`
}

type farmerRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LocationCode string `json:"location_code"`
}

type listResponse struct {
	Items      []submissionResponse `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages,omitempty"`
}

// toSubmissionResponse maps the domain aggregate to the wire view, deriving
// the total value on read.
func toSubmissionResponse(s *domain.Submission) submissionResponse {
	resp := submissionResponse{
		ID:           s.ID,
		Date:         s.Date.UTC().Format("2006-01-02"),
		FirmCode:     s.FirmCode,
		CategoryCode: s.CategoryCode,
		Product: productRef{
			ID:           s.Product.ID,
			Name:         s.Product.Name,
			CategoryCode: s.Product.CategoryCode,
		},
		Farmer: farmerRef{
			ID:           s.Farmer.ID,
			Name:         s.Farmer.Name,
			LocationCode: s.Farmer.LocationCode,
		},
		LocationCode:    s.LocationCode,
		BuyerID:         s.BuyerID,
		PricePerUnit:    s.PricePerUnit,
		Quantity:        s.Quantity,
		Unit:            s.Unit,
		Notes:           s.Notes,
		TotalValue:      s.TotalValue(),
		Status:          string(s.Status),
		ApprovedBy:      s.ApprovedBy,
		ApprovalVersion: s.ApprovalVersion,
		CreatedAt:       s.CreatedAt.UTC().Format(time.RFC3339),
	}
	if s.ApprovedAt != nil {
		resp.ApprovedAt = s.ApprovedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toListResponse(items []*domain.Submission, total int64, page, limit, totalPages int) listResponse {
	out := listResponse{
		Items:      make([]submissionResponse, 0, len(items)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
	for _, s := range items {
		out.Items = append(out.Items, toSubmissionResponse(s))
	}
	return out
}
