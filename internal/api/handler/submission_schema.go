package handler

type productRequest struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	CategoryCode string `json:"category_code" validate:"required"`
}

type farmerRequest struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	LocationCode string `json:"location_code" validate:"required"`
}

type createSubmissionRequest struct {
	Date         string         `json:"date"` // YYYY-MM-DD, defaults to today
	FirmCode     string         `json:"firm_code" validate:"required"`
	CategoryCode string         `json:"category_code" validate:"required"`
	Product      productRequest `json:"product" validate:"required"`
	Farmer       farmerRequest  `json:"farmer" validate:"required"`
	LocationCode string         `json:"location_code" validate:"required"`
	PricePerUnit float64        `json:"price_per_unit" validate:"required,gt=0"`
	Quantity     float64        `json:"quantity" validate:"required,gt=0"`
	Unit         string         `json:"unit" validate:"omitempty,oneof=kg g ton piece dozen box sack"`
	Notes        string         `json:"notes"`
}

type updateSubmissionRequest struct {
	PricePerUnit float64 `json:"price_per_unit" validate:"required,gt=0"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
	Unit         string  `json:"unit" validate:"omitempty,oneof=kg g ton piece dozen box sack"`
	Notes        string  `json:"notes"`
}
