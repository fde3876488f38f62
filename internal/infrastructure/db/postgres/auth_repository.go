package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/farmgate/livestock-market/internal/core/domain"
)

// AuthRepository persists users and their role profiles in Postgres.
type AuthRepository struct {
	db *sql.DB
}

func NewAuthRepository(db *sql.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUser(ctx, "email", email)
}

func (r *AuthRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findUser(ctx, "id", id)
}

func (r *AuthRepository) findUser(ctx context.Context, column, value string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, is_active, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// CreateWithProfile inserts the user and its role profile inside one
// transaction. The user row goes first so the profile can reference the new
// id before anything is committed; any failure rolls back both inserts. The
// email unique constraint closes the race between concurrent registrations,
// surfacing the loser as domain.ErrEmailTaken.
func (r *AuthRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.PasswordHash, user.Role, user.Active, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	switch p := profile.(type) {
	case domain.Farmer:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO farmers (id, user_id, farm_name, location, phone_number, is_verified, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, p.UserID, p.FarmName, p.Location, p.PhoneNumber, p.Verified, p.CreatedAt, p.UpdatedAt)
	case domain.Buyer:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO buyers (id, user_id, delivery_address, preferred_contact, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, p.UserID, toNullString(p.DeliveryAddress), toNullString(p.PreferredContact), p.CreatedAt, p.UpdatedAt)
	default:
		return fmt.Errorf("insert profile: unsupported profile type %T", profile)
	}
	if err != nil {
		return fmt.Errorf("insert %s profile: %w", profile.ProfileRole(), err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("commit registration: %w", err)
	}
	return nil
}

// FindProfile loads the farmer or buyer record owned by the given user.
func (r *AuthRepository) FindProfile(ctx context.Context, userID string, role domain.Role) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	switch role {
	case domain.RoleFarmer:
		row := r.db.QueryRowContext(ctx, `
			SELECT id, user_id, farm_name, location, phone_number, is_verified, created_at, updated_at
			FROM farmers
			WHERE user_id = $1
		`, userID)

		var f domain.Farmer
		if err := row.Scan(&f.ID, &f.UserID, &f.FarmName, &f.Location, &f.PhoneNumber, &f.Verified, &f.CreatedAt, &f.UpdatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domain.ErrProfileNotFound
			}
			return nil, fmt.Errorf("find farmer profile: %w", err)
		}
		return f, nil

	case domain.RoleBuyer:
		row := r.db.QueryRowContext(ctx, `
			SELECT id, user_id, delivery_address, preferred_contact, created_at, updated_at
			FROM buyers
			WHERE user_id = $1
		`, userID)

		var b domain.Buyer
		var addr, contact sql.NullString
		if err := row.Scan(&b.ID, &b.UserID, &addr, &contact, &b.CreatedAt, &b.UpdatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domain.ErrProfileNotFound
			}
			return nil, fmt.Errorf("find buyer profile: %w", err)
		}
		b.DeliveryAddress = fromNullString(addr)
		b.PreferredContact = fromNullString(contact)
		return b, nil
	}

	return nil, domain.ErrProfileNotFound
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
