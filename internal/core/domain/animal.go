package domain

import "time"

// AnimalStatus represents the lifecycle state of a livestock listing.
type AnimalStatus string

const (
	StatusAvailable AnimalStatus = "available"
	StatusReserved  AnimalStatus = "reserved"
	StatusSold      AnimalStatus = "sold"
)

// validTransitions defines the allowed listing state machine transitions.
// Sold is terminal; a reservation can fall through back to available.
var validTransitions = map[AnimalStatus][]AnimalStatus{
	StatusAvailable: {StatusReserved, StatusSold},
	StatusReserved:  {StatusAvailable, StatusSold},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s AnimalStatus) CanTransitionTo(next AnimalStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether the status is one of the known enum values.
func (s AnimalStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// Animal is a livestock listing owned by a farmer.
// Price is stored as NUMERIC(10,2) at the store; breed, age, weight and
// image are optional and stored as NULL when absent.
type Animal struct {
	ID        string       `json:"id"`
	FarmerID  string       `json:"farmer_id"`
	Species   string       `json:"species"`
	Breed     *string      `json:"breed,omitempty"`
	AgeMonths *int         `json:"age_months,omitempty"`
	WeightKg  *float64     `json:"weight_kg,omitempty"`
	Price     float64      `json:"price"`
	Status    AnimalStatus `json:"status"`
	ImageURL  *string      `json:"image_url,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ListingEvent records a single status transition on a listing, kept as an
// append-only audit trail.
type ListingEvent struct {
	ID         string
	AnimalID   string
	FromStatus AnimalStatus
	ToStatus   AnimalStatus
	ActorID    string
	Timestamp  time.Time
}
