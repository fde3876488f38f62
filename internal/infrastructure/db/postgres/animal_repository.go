package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

// AnimalRepository persists livestock listings and their activity log.
type AnimalRepository struct {
	db *sql.DB
}

func NewAnimalRepository(db *sql.DB) *AnimalRepository {
	return &AnimalRepository{db: db}
}

const animalColumns = `id, farmer_id, species, breed, age_months, weight_kg, price, status, image_url, created_at, updated_at`

func (r *AnimalRepository) Create(ctx context.Context, a *domain.Animal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		a.ID,
		a.FarmerID,
		a.Species,
		toNullString(a.Breed),
		toNullInt(a.AgeMonths),
		toNullFloat(a.WeightKg),
		a.Price,
		a.Status,
		toNullString(a.ImageURL),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert animal: %w", err)
	}
	return nil
}

func (r *AnimalRepository) FindByID(ctx context.Context, id string) (*domain.Animal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnimalNotFound
		}
		return nil, fmt.Errorf("find animal: %w", err)
	}
	return a, nil
}

// List returns a page of listings matching filter plus the total count.
func (r *AnimalRepository) List(ctx context.Context, filter ports.ListAnimalsFilter) ([]*domain.Animal, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var conds []string
	var args []any
	addCond := func(cond, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, cond+" = $"+strconv.Itoa(len(args)))
	}
	addCond("status", filter.Status)
	addCond("species", filter.Species)
	addCond("farmer_id", filter.FarmerID)

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM animals"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count animals: %w", err)
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	args = append(args, limit, offset)
	query := "SELECT " + animalColumns + " FROM animals" + where +
		" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list animals: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan animal: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// UpdateStatus is a compare-and-set: the row must still hold from, so two
// racing transitions validated against the same read cannot both win.
func (r *AnimalRepository) UpdateStatus(ctx context.Context, id string, from, to domain.AnimalStatus, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`, id, to, updatedAt, from)
	if err != nil {
		return fmt.Errorf("update animal status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Either the row is gone or another writer moved it first. The
		// transition was validated against a stale status either way.
		return fmt.Errorf("%w (listing changed concurrently)", domain.ErrInvalidTransition)
	}
	return nil
}

// InsertEvent appends a row to the listing activity log.
func (r *AnimalRepository) InsertEvent(ctx context.Context, ev *domain.ListingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animal_events (id, animal_id, from_status, to_status, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ev.ID, ev.AnimalID, ev.FromStatus, ev.ToStatus, ev.ActorID, ev.Timestamp)
	if err != nil {
		return fmt.Errorf("insert listing event: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s scanner) (*domain.Animal, error) {
	var a domain.Animal
	var breed, imageURL sql.NullString
	var age sql.NullInt64
	var weight sql.NullFloat64
	if err := s.Scan(
		&a.ID,
		&a.FarmerID,
		&a.Species,
		&breed,
		&age,
		&weight,
		&a.Price,
		&a.Status,
		&imageURL,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Breed = fromNullString(breed)
	a.ImageURL = fromNullString(imageURL)
	if age.Valid {
		v := int(age.Int64)
		a.AgeMonths = &v
	}
	if weight.Valid {
		v := weight.Float64
		a.WeightKg = &v
	}
	return &a, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
