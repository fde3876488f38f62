package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

type stubAnimalRepo struct {
	animals map[string]*domain.Animal
	events  []*domain.ListingEvent

	// afterFind runs after each FindByID, simulating a concurrent writer
	// that moves the row between the read and the update.
	afterFind func()
}

func newStubAnimalRepo() *stubAnimalRepo {
	return &stubAnimalRepo{animals: make(map[string]*domain.Animal)}
}

func (r *stubAnimalRepo) Create(_ context.Context, a *domain.Animal) error {
	clone := *a
	r.animals[a.ID] = &clone
	return nil
}

func (r *stubAnimalRepo) FindByID(_ context.Context, id string) (*domain.Animal, error) {
	if a, ok := r.animals[id]; ok {
		clone := *a
		if r.afterFind != nil {
			r.afterFind()
		}
		return &clone, nil
	}
	return nil, domain.ErrAnimalNotFound
}

func (r *stubAnimalRepo) List(_ context.Context, filter ports.ListAnimalsFilter) ([]*domain.Animal, int64, error) {
	var out []*domain.Animal
	for _, a := range r.animals {
		if filter.Status != "" && string(a.Status) != filter.Status {
			continue
		}
		if filter.Species != "" && a.Species != filter.Species {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubAnimalRepo) UpdateStatus(_ context.Context, id string, from, to domain.AnimalStatus, updatedAt time.Time) error {
	a, ok := r.animals[id]
	if !ok || a.Status != from {
		return domain.ErrInvalidTransition
	}
	a.Status = to
	a.UpdatedAt = updatedAt
	return nil
}

func (r *stubAnimalRepo) InsertEvent(_ context.Context, ev *domain.ListingEvent) error {
	r.events = append(r.events, ev)
	return nil
}

type recordingSink struct {
	events []domain.ListingEvent
}

func (s *recordingSink) Enqueue(ev domain.ListingEvent) {
	s.events = append(s.events, ev)
}

type countingCache struct {
	stored      *ports.ListAnimalsResult
	invalidated int
}

func (c *countingCache) Get(context.Context) (*ports.ListAnimalsResult, error) {
	return c.stored, nil
}

func (c *countingCache) Set(_ context.Context, r *ports.ListAnimalsResult) error {
	c.stored = r
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.stored = nil
	c.invalidated++
	return nil
}

// seedFarmer registers a farmer-owning user in the auth stub and returns the
// user id plus the farmer profile id.
func seedFarmer(repo *stubAuthRepo, email string) (string, string) {
	userID := "user-" + email
	farmerID := "farmer-" + email
	repo.users[email] = &domain.User{ID: userID, Email: email, Role: domain.RoleFarmer, Active: true}
	repo.profiles[userID] = domain.Farmer{ID: farmerID, UserID: userID, FarmName: "Farm", Location: "X", PhoneNumber: "1"}
	return userID, farmerID
}

func TestAnimalService_CreateAnimal(t *testing.T) {
	authRepo := newStubAuthRepo()
	userID, farmerID := seedFarmer(authRepo, "farm@example.com")
	repo := newStubAnimalRepo()
	cache := &countingCache{}
	svc := NewAnimalService(repo, authRepo, cache, nil, zerolog.Nop())

	breed := "Boran"
	animal, err := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
		UserID:  userID,
		Species: "Cow",
		Breed:   &breed,
		Price:   45000,
	})
	if err != nil {
		t.Fatalf("CreateAnimal returned error: %v", err)
	}
	if animal.FarmerID != farmerID {
		t.Fatalf("expected farmer id %s, got %s", farmerID, animal.FarmerID)
	}
	if animal.Status != domain.StatusAvailable {
		t.Fatalf("expected status available, got %s", animal.Status)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation on create")
	}
}

func TestAnimalService_CreateAnimal_Validation(t *testing.T) {
	authRepo := newStubAuthRepo()
	userID, _ := seedFarmer(authRepo, "farm@example.com")
	svc := NewAnimalService(newStubAnimalRepo(), authRepo, nil, nil, zerolog.Nop())

	cases := []ports.CreateAnimalInput{
		{UserID: userID, Price: 100},               // missing species
		{UserID: userID, Species: "Goat"},          // missing price
		{UserID: userID, Species: " ", Price: 100}, // blank species
	}
	for i, in := range cases {
		_, err := svc.CreateAnimal(context.Background(), in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestAnimalService_CreateAnimal_NoFarmerProfile(t *testing.T) {
	svc := NewAnimalService(newStubAnimalRepo(), newStubAuthRepo(), nil, nil, zerolog.Nop())

	_, err := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
		UserID: "nobody", Species: "Cow", Price: 100,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAnimalService_ListAnimals_Defaults(t *testing.T) {
	authRepo := newStubAuthRepo()
	userID, _ := seedFarmer(authRepo, "farm@example.com")
	repo := newStubAnimalRepo()
	svc := NewAnimalService(repo, authRepo, nil, nil, zerolog.Nop())

	for _, species := range []string{"Cow", "Goat"} {
		if _, err := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
			UserID: userID, Species: species, Price: 100,
		}); err != nil {
			t.Fatalf("seed listing: %v", err)
		}
	}

	result, err := svc.ListAnimals(context.Background(), ports.ListAnimalsInput{})
	if err != nil {
		t.Fatalf("ListAnimals returned error: %v", err)
	}
	if result.Total != 2 || result.Page != 1 || result.Limit != defaultPageLimit {
		t.Fatalf("unexpected result: total=%d page=%d limit=%d", result.Total, result.Page, result.Limit)
	}
	if result.TotalPages != 1 {
		t.Fatalf("expected 1 total page, got %d", result.TotalPages)
	}
}

func TestAnimalService_ListAnimals_InvalidStatus(t *testing.T) {
	svc := NewAnimalService(newStubAnimalRepo(), newStubAuthRepo(), nil, nil, zerolog.Nop())

	_, err := svc.ListAnimals(context.Background(), ports.ListAnimalsInput{Status: "pending"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAnimalService_ListAnimals_CachesDefaultBrowse(t *testing.T) {
	authRepo := newStubAuthRepo()
	userID, _ := seedFarmer(authRepo, "farm@example.com")
	repo := newStubAnimalRepo()
	cache := &countingCache{}
	svc := NewAnimalService(repo, authRepo, cache, nil, zerolog.Nop())

	if _, err := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
		UserID: userID, Species: "Cow", Price: 100,
	}); err != nil {
		t.Fatalf("seed listing: %v", err)
	}

	if _, err := svc.ListAnimals(context.Background(), ports.ListAnimalsInput{}); err != nil {
		t.Fatalf("first browse: %v", err)
	}
	if cache.stored == nil {
		t.Fatalf("expected default browse result to be cached")
	}

	// Second read is served from cache even after mutating the store directly.
	repo.animals = map[string]*domain.Animal{}
	result, err := svc.ListAnimals(context.Background(), ports.ListAnimalsInput{})
	if err != nil {
		t.Fatalf("second browse: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected cached total 1, got %d", result.Total)
	}

	// Non-default queries bypass the cache.
	filtered, err := svc.ListAnimals(context.Background(), ports.ListAnimalsInput{Species: "Cow"})
	if err != nil {
		t.Fatalf("filtered browse: %v", err)
	}
	if filtered.Total != 0 {
		t.Fatalf("expected store-backed total 0, got %d", filtered.Total)
	}
}

func TestAnimalService_UpdateStatus(t *testing.T) {
	authRepo := newStubAuthRepo()
	userID, _ := seedFarmer(authRepo, "farm@example.com")
	repo := newStubAnimalRepo()
	sink := &recordingSink{}
	cache := &countingCache{}
	svc := NewAnimalService(repo, authRepo, cache, sink, zerolog.Nop())

	animal, err := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
		UserID: userID, Species: "Cow", Price: 100,
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), ports.UpdateAnimalStatusInput{
		AnimalID: animal.ID, Status: "reserved", UserID: userID, Role: domain.RoleFarmer,
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != domain.StatusReserved {
		t.Fatalf("expected reserved, got %s", updated.Status)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.AnimalID != animal.ID || ev.FromStatus != domain.StatusAvailable || ev.ToStatus != domain.StatusReserved {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
	if ev.ActorID != userID {
		t.Fatalf("expected actor %s, got %s", userID, ev.ActorID)
	}
}

func TestAnimalService_UpdateStatus_InvalidTransition(t *testing.T) {
	authRepo := newStubAuthRepo()
	userID, _ := seedFarmer(authRepo, "farm@example.com")
	repo := newStubAnimalRepo()
	svc := NewAnimalService(repo, authRepo, nil, nil, zerolog.Nop())

	animal, _ := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
		UserID: userID, Species: "Cow", Price: 100,
	})
	if _, err := svc.UpdateStatus(context.Background(), ports.UpdateAnimalStatusInput{
		AnimalID: animal.ID, Status: "sold", UserID: userID, Role: domain.RoleFarmer,
	}); err != nil {
		t.Fatalf("sell listing: %v", err)
	}

	_, err := svc.UpdateStatus(context.Background(), ports.UpdateAnimalStatusInput{
		AnimalID: animal.ID, Status: "available", UserID: userID, Role: domain.RoleFarmer,
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAnimalService_UpdateStatus_ConcurrentSaleStaysTerminal(t *testing.T) {
	authRepo := newStubAuthRepo()
	userID, _ := seedFarmer(authRepo, "farm@example.com")
	repo := newStubAnimalRepo()
	sink := &recordingSink{}
	svc := NewAnimalService(repo, authRepo, nil, sink, zerolog.Nop())

	animal, err := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
		UserID: userID, Species: "Cow", Price: 100,
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}

	// A competing request sells the listing between the read and the write;
	// the stale transition back to available must lose, not revive the row.
	repo.afterFind = func() {
		repo.animals[animal.ID].Status = domain.StatusSold
		repo.afterFind = nil
	}

	_, err = svc.UpdateStatus(context.Background(), ports.UpdateAnimalStatusInput{
		AnimalID: animal.ID, Status: "available", UserID: userID, Role: domain.RoleFarmer,
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := repo.animals[animal.ID].Status; got != domain.StatusSold {
		t.Fatalf("sold listing was revived to %q", got)
	}
	if len(sink.events) != 0 {
		t.Fatalf("expected no audit event for a lost race, got %d", len(sink.events))
	}
}

func TestAnimalService_UpdateStatus_NotOwner(t *testing.T) {
	authRepo := newStubAuthRepo()
	ownerID, _ := seedFarmer(authRepo, "owner@example.com")
	otherID, _ := seedFarmer(authRepo, "other@example.com")
	repo := newStubAnimalRepo()
	svc := NewAnimalService(repo, authRepo, nil, nil, zerolog.Nop())

	animal, _ := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
		UserID: ownerID, Species: "Cow", Price: 100,
	})

	_, err := svc.UpdateStatus(context.Background(), ports.UpdateAnimalStatusInput{
		AnimalID: animal.ID, Status: "reserved", UserID: otherID, Role: domain.RoleFarmer,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAnimalService_UpdateStatus_AdminBypassesOwnership(t *testing.T) {
	authRepo := newStubAuthRepo()
	ownerID, _ := seedFarmer(authRepo, "owner@example.com")
	repo := newStubAnimalRepo()
	svc := NewAnimalService(repo, authRepo, nil, nil, zerolog.Nop())

	animal, _ := svc.CreateAnimal(context.Background(), ports.CreateAnimalInput{
		UserID: ownerID, Species: "Cow", Price: 100,
	})

	if _, err := svc.UpdateStatus(context.Background(), ports.UpdateAnimalStatusInput{
		AnimalID: animal.ID, Status: "reserved", UserID: "admin-1", Role: domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("expected admin to bypass ownership, got %v", err)
	}
}

func TestAnimalService_UpdateStatus_NotFound(t *testing.T) {
	svc := NewAnimalService(newStubAnimalRepo(), newStubAuthRepo(), nil, nil, zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), ports.UpdateAnimalStatusInput{
		AnimalID: "missing", Status: "reserved", UserID: "u", Role: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrAnimalNotFound) {
		t.Fatalf("expected ErrAnimalNotFound, got %v", err)
	}
}
