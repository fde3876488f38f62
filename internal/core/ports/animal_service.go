package ports

import (
	"context"

	"github.com/farmgate/livestock-market/internal/core/domain"
)

// CreateAnimalInput carries all data needed to create a listing. UserID is
// the authenticated farmer's user id, resolved to a farmer profile by the
// service.
type CreateAnimalInput struct {
	UserID    string
	Species   string
	Breed     *string
	AgeMonths *int
	WeightKg  *float64
	Price     float64
	ImageURL  *string
}

// ListAnimalsInput carries the browse query parameters.
type ListAnimalsInput struct {
	Species string
	Status  string
	Page    int
	Limit   int
}

// ListAnimalsResult is returned by ListAnimals.
type ListAnimalsResult struct {
	Items      []*domain.Animal
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UpdateAnimalStatusInput carries a requested status transition. Role and
// UserID enforce ownership: only the owning farmer (or an admin) may move a
// listing.
type UpdateAnimalStatusInput struct {
	AnimalID string
	Status   string
	UserID   string
	Role     domain.Role
}

// AnimalService defines the listing use cases.
type AnimalService interface {
	CreateAnimal(ctx context.Context, in CreateAnimalInput) (*domain.Animal, error)
	GetAnimal(ctx context.Context, id string) (*domain.Animal, error)
	ListAnimals(ctx context.Context, in ListAnimalsInput) (*ListAnimalsResult, error)
	UpdateStatus(ctx context.Context, in UpdateAnimalStatusInput) (*domain.Animal, error)
}
