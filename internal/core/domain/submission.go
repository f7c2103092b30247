package domain

import (
	"fmt"
	"time"
)

// SubmissionStatus represents the approval state of a price submission.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "PENDING"
	StatusApproved  SubmissionStatus = "APPROVED"
	StatusCancelled SubmissionStatus = "CANCELLED"
)

// Units accepted for a submission's quantity.
const (
	UnitKg    = "kg"
	UnitGram  = "g"
	UnitTon   = "ton"
	UnitPiece = "piece"
	UnitDozen = "dozen"
	UnitBox   = "box"
	UnitSack  = "sack"
)

var validUnits = map[string]struct{}{
	UnitKg: {}, UnitGram: {}, UnitTon: {}, UnitPiece: {},
	UnitDozen: {}, UnitBox: {}, UnitSack: {},
}

// ValidUnit reports whether u is an accepted quantity unit.
func ValidUnit(u string) bool {
	_, ok := validUnits[u]
	return ok
}

// ProductRef is the denormalised product reference embedded in a submission.
// CategoryCode is the category the product actually belongs to, checked
// against the submission's own category on validation.
type ProductRef struct {
	ID           string `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	CategoryCode string `json:"category_code" bson:"category_code"`
}

// FarmerRef is the denormalised farmer reference embedded in a submission.
type FarmerRef struct {
	ID           string `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	LocationCode string `json:"location_code" bson:"location_code"`
}

// Submission is the core aggregate: one priced offer for a farmer's produce
// on a date, awaiting or having completed approval.
//
// Scope attributes (date, firm, category, product, farmer, location, buyer)
// are immutable after creation. Workflow attributes (status, approved_by,
// approved_at, approval_version) are mutated only by the approval service.
type Submission struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	Date         time.Time  `json:"date" bson:"date"`
	FirmCode     string     `json:"firm_code" bson:"firm_code"`
	CategoryCode string     `json:"category_code" bson:"category_code"`
	Product      ProductRef `json:"product" bson:"product"`
	Farmer       FarmerRef  `json:"farmer" bson:"farmer"`
	LocationCode string     `json:"location_code" bson:"location_code"`
	BuyerID      string     `json:"buyer_id" bson:"buyer_id"`

	PricePerUnit float64 `json:"price_per_unit" bson:"price_per_unit"`
	Quantity     float64 `json:"quantity" bson:"quantity"`
	Unit         string  `json:"unit" bson:"unit"`
	Notes        string  `json:"notes,omitempty" bson:"notes,omitempty"`

	Status          SubmissionStatus `json:"status" bson:"status"`
	ApprovedBy      string           `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	ApprovalVersion int64            `json:"approval_version" bson:"approval_version"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// TotalValue is price × quantity, computed on read and never stored.
func (s *Submission) TotalValue() float64 {
	return s.PricePerUnit * s.Quantity
}

// DuplicateKey builds the uniqueness tuple that prevents exact duplicate
// submissions: same day, firm, category, product, farmer, buyer, price and
// quantity. The mongo repository enforces it with a unique index over the
// same fields.
func (s *Submission) DuplicateKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%.2f|%.2f",
		s.Date.UTC().Format("2006-01-02"),
		s.FirmCode, s.CategoryCode, s.Product.ID, s.Farmer.ID, s.BuyerID,
		s.PricePerUnit, s.Quantity)
}
