package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const defaultTimeout = 10 * time.Second

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// Open establishes a pooled Postgres connection via the pgx stdlib driver and
// verifies connectivity with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// EnsureSchema creates the marketplace tables when they do not exist yet.
// The DDL is idempotent so it can run on every startup. Statements run one
// at a time: the pgx extended protocol rejects multi-command strings.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         VARCHAR(120) NOT NULL UNIQUE,
			password_hash VARCHAR(256) NOT NULL,
			role          VARCHAR(10)  NOT NULL,
			is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ  NOT NULL,
			updated_at    TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS farmers (
			id           UUID PRIMARY KEY,
			user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			farm_name    VARCHAR(100) NOT NULL,
			location     VARCHAR(255) NOT NULL,
			phone_number VARCHAR(20)  NOT NULL,
			is_verified  BOOLEAN      NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMPTZ  NOT NULL,
			updated_at   TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS buyers (
			id                UUID PRIMARY KEY,
			user_id           UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			delivery_address  TEXT,
			preferred_contact VARCHAR(50),
			created_at        TIMESTAMPTZ NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS animals (
			id         UUID PRIMARY KEY,
			farmer_id  UUID NOT NULL REFERENCES farmers(id) ON DELETE CASCADE,
			species    VARCHAR(50)   NOT NULL,
			breed      VARCHAR(100),
			age_months INTEGER,
			weight_kg  DOUBLE PRECISION,
			price      NUMERIC(10,2) NOT NULL,
			status     VARCHAR(20)   NOT NULL DEFAULT 'available',
			image_url  VARCHAR(255),
			created_at TIMESTAMPTZ   NOT NULL,
			updated_at TIMESTAMPTZ   NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS animal_events (
			id          UUID PRIMARY KEY,
			animal_id   UUID NOT NULL REFERENCES animals(id) ON DELETE CASCADE,
			from_status VARCHAR(20) NOT NULL,
			to_status   VARCHAR(20) NOT NULL,
			actor_id    UUID        NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_animals_status ON animals(status)`,
		`CREATE INDEX IF NOT EXISTS idx_animals_farmer ON animals(farmer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_animal ON animal_events(animal_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
