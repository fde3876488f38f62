package ports

import (
	"context"
	"time"

	"github.com/farmgate/livestock-market/internal/core/domain"
)

// ListAnimalsFilter carries all query parameters for browsing listings.
type ListAnimalsFilter struct {
	Species  string // optional: exact match on species
	Status   string // optional: filter by listing status
	FarmerID string // optional: scope to a single farmer
	Page     int    // 1-based
	Limit    int    // max rows per page (capped at 100 by the service)
}

// AnimalRepository defines persistence operations for livestock listings.
type AnimalRepository interface {
	Create(ctx context.Context, a *domain.Animal) error
	FindByID(ctx context.Context, id string) (*domain.Animal, error)
	// List returns a page of listings matching filter and the total count.
	List(ctx context.Context, filter ListAnimalsFilter) ([]*domain.Animal, int64, error)
	// UpdateStatus applies the transition only when the row still holds
	// from; a concurrent writer that moved the listing first surfaces as
	// domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to domain.AnimalStatus, updatedAt time.Time) error
	// InsertEvent appends a row to the listing activity log.
	InsertEvent(ctx context.Context, ev *domain.ListingEvent) error
}
