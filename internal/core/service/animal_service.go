package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farmgate/livestock-market/internal/api/metrics"
	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// BrowseCache abstracts the short-lived cache in front of the default browse
// query (Redis). A nil result with a nil error is a miss.
type BrowseCache interface {
	Get(ctx context.Context) (*ports.ListAnimalsResult, error)
	Set(ctx context.Context, result *ports.ListAnimalsResult) error
	Invalidate(ctx context.Context) error
}

// ListingEventSink receives listing audit events for asynchronous persistence.
type ListingEventSink interface {
	Enqueue(ev domain.ListingEvent)
}

type animalService struct {
	repo  ports.AnimalRepository
	auth  ports.AuthRepository
	cache BrowseCache
	sink  ListingEventSink
	log   zerolog.Logger
}

// NewAnimalService returns an AnimalService implementation. cache and sink
// may be nil; both are best-effort collaborators.
func NewAnimalService(
	repo ports.AnimalRepository,
	auth ports.AuthRepository,
	cache BrowseCache,
	sink ListingEventSink,
	log zerolog.Logger,
) ports.AnimalService {
	return &animalService{repo: repo, auth: auth, cache: cache, sink: sink, log: log}
}

// CreateAnimal creates a listing owned by the authenticated farmer.
func (s *animalService) CreateAnimal(ctx context.Context, in ports.CreateAnimalInput) (*domain.Animal, error) {
	species := strings.TrimSpace(in.Species)
	if species == "" {
		return nil, domain.NewValidationError("Missing required listing fields", "species")
	}
	if in.Price <= 0 {
		return nil, domain.NewValidationError("Price must be greater than zero")
	}

	farmer, err := s.farmerProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	animal := &domain.Animal{
		ID:        uuid.NewString(),
		FarmerID:  farmer.ID,
		Species:   species,
		Breed:     in.Breed,
		AgeMonths: in.AgeMonths,
		WeightKg:  in.WeightKg,
		Price:     in.Price,
		Status:    domain.StatusAvailable,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, animal); err != nil {
		s.log.Error().Err(err).Str("farmer_id", farmer.ID).Msg("failed to create listing")
		return nil, err
	}

	s.invalidateCache(ctx)
	metrics.ListingsCreatedTotal.WithLabelValues(strings.ToLower(species)).Inc()
	s.log.Info().Str("animal_id", animal.ID).Str("farmer_id", farmer.ID).Str("species", species).Msg("listing created")

	return animal, nil
}

func (s *animalService) GetAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAnimals returns a page of listings. The default browse query (first
// page of available listings, no species filter) is served from cache when
// possible.
func (s *animalService) ListAnimals(ctx context.Context, in ports.ListAnimalsInput) (*ports.ListAnimalsResult, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 {
		in.Limit = defaultPageLimit
	}
	if in.Limit > maxPageLimit {
		in.Limit = maxPageLimit
	}
	if in.Status == "" {
		in.Status = string(domain.StatusAvailable)
	}
	if !domain.AnimalStatus(in.Status).Valid() {
		return nil, domain.NewValidationError("Invalid status. Must be one of 'available', 'reserved', 'sold'")
	}

	cacheable := s.cache != nil && isDefaultBrowse(in)
	if cacheable {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("browse cache read failed, falling back to store")
		} else if cached != nil {
			return cached, nil
		}
	}

	items, total, err := s.repo.List(ctx, ports.ListAnimalsFilter{
		Species: in.Species,
		Status:  in.Status,
		Page:    in.Page,
		Limit:   in.Limit,
	})
	if err != nil {
		return nil, err
	}

	result := &ports.ListAnimalsResult{
		Items:      items,
		Total:      total,
		Page:       in.Page,
		Limit:      in.Limit,
		TotalPages: totalPages(total, in.Limit),
	}

	if cacheable {
		if err := s.cache.Set(ctx, result); err != nil {
			s.log.Warn().Err(err).Msg("browse cache write failed")
		}
	}

	return result, nil
}

// UpdateStatus applies a listing status transition. Only the owning farmer or
// an admin may move a listing; sold is terminal.
func (s *animalService) UpdateStatus(ctx context.Context, in ports.UpdateAnimalStatusInput) (*domain.Animal, error) {
	next := domain.AnimalStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !next.Valid() {
		return nil, domain.NewValidationError("Invalid status. Must be one of 'available', 'reserved', 'sold'")
	}

	animal, err := s.repo.FindByID(ctx, in.AnimalID)
	if err != nil {
		return nil, err
	}

	if in.Role != domain.RoleAdmin {
		farmer, err := s.farmerProfile(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if farmer.ID != animal.FarmerID {
			return nil, domain.ErrForbidden
		}
	}

	if !animal.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, animal.Status, next)
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, animal.ID, animal.Status, next, now); err != nil {
		s.log.Error().Err(err).Str("animal_id", animal.ID).Msg("failed to update listing status")
		return nil, err
	}

	if s.sink != nil {
		s.sink.Enqueue(domain.ListingEvent{
			ID:         uuid.NewString(),
			AnimalID:   animal.ID,
			FromStatus: animal.Status,
			ToStatus:   next,
			ActorID:    in.UserID,
			Timestamp:  now,
		})
	}

	s.invalidateCache(ctx)
	metrics.ListingTransitionsTotal.WithLabelValues(string(next)).Inc()
	s.log.Info().
		Str("animal_id", animal.ID).
		Str("from", string(animal.Status)).
		Str("to", string(next)).
		Msg("listing status updated")

	animal.Status = next
	animal.UpdatedAt = now
	return animal, nil
}

// farmerProfile resolves the farmer record owned by the given user. A user
// without one cannot own listings.
func (s *animalService) farmerProfile(ctx context.Context, userID string) (*domain.Farmer, error) {
	profile, err := s.auth.FindProfile(ctx, userID, domain.RoleFarmer)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	farmer, ok := profile.(domain.Farmer)
	if !ok {
		return nil, domain.ErrForbidden
	}
	return &farmer, nil
}

func (s *animalService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("browse cache invalidation failed")
	}
}

// isDefaultBrowse reports whether the query matches the cached default view.
func isDefaultBrowse(in ports.ListAnimalsInput) bool {
	return in.Species == "" &&
		in.Status == string(domain.StatusAvailable) &&
		in.Page == 1 &&
		in.Limit == defaultPageLimit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
