package domain

// Validate checks a submission's structural invariants and returns a
// field-tagged ValidationError for the first violation found. It is pure:
// no lookups, no side effects. The approval service re-runs it defensively
// before committing any transition.
func Validate(s *Submission) error {
	if s.Product.CategoryCode != s.CategoryCode {
		return &ValidationError{
			Field:  "product",
			Reason: "product " + s.Product.Name + " does not belong to category " + s.CategoryCode,
		}
	}
	if s.Farmer.LocationCode != s.LocationCode {
		return &ValidationError{
			Field:  "farmer",
			Reason: "farmer " + s.Farmer.Name + " is not from location " + s.LocationCode,
		}
	}
	if s.PricePerUnit <= 0 {
		return &ValidationError{Field: "price_per_unit", Reason: "must be greater than zero"}
	}
	if s.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if !ValidUnit(s.Unit) {
		return &ValidationError{Field: "unit", Reason: "unknown unit " + s.Unit}
	}
	return nil
}
