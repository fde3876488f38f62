package handler

import "time"

// --- Request / Response types ---

type createAnimalRequest struct {
	Species   string   `json:"species"    validate:"required"`
	Breed     *string  `json:"breed"`
	AgeMonths *int     `json:"age_months" validate:"omitempty,min=0"`
	WeightKg  *float64 `json:"weight_kg"  validate:"omitempty,gt=0"`
	Price     float64  `json:"price"      validate:"required,gt=0"`
	ImageURL  *string  `json:"image_url"`
}

type updateAnimalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available reserved sold"`
}

// animalResponse is the transport view of a listing. It is intentionally
// separate from the domain type so the JSON contract is not coupled to
// internal changes.
type animalResponse struct {
	ID        string    `json:"id"`
	FarmerID  string    `json:"farmer_id"`
	Species   string    `json:"species"`
	Breed     *string   `json:"breed,omitempty"`
	AgeMonths *int      `json:"age_months,omitempty"`
	WeightKg  *float64  `json:"weight_kg,omitempty"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listAnimalsResponse struct {
	Data       []animalResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
