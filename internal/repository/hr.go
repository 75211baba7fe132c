package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/velocity-h/peoplepulse/internal/domain"
)

// HRRepository handles recruiter account data access.
type HRRepository struct {
	db *sqlx.DB
}

// NewHRRepository creates a new HRRepository.
func NewHRRepository(db *sqlx.DB) *HRRepository {
	return &HRRepository{db: db}
}

// FindByID retrieves an HR account by ID.
func (r *HRRepository) FindByID(ctx context.Context, id int64) (*domain.HR, error) {
	var hr domain.HR
	err := r.db.GetContext(ctx, &hr,
		`SELECT id, name, email, password, created_at FROM hrs WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find hr by id %d: %w", id, err)
	}
	return &hr, nil
}

// FindByEmail retrieves an HR account by email.
func (r *HRRepository) FindByEmail(ctx context.Context, email string) (*domain.HR, error) {
	var hr domain.HR
	err := r.db.GetContext(ctx, &hr,
		`SELECT id, name, email, password, created_at FROM hrs WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find hr by email: %w", err)
	}
	return &hr, nil
}

// Create inserts a new HR account. A duplicate email maps to ErrConflict.
func (r *HRRepository) Create(ctx context.Context, hr domain.HR) (*domain.HR, error) {
	var result domain.HR
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO hrs (name, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, email, password, created_at`,
		hr.Name, hr.Email, hr.PasswordHash,
	).StructScan(&result)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create hr: %w", err)
	}
	return &result, nil
}

// Upsert creates an HR account keyed by email or refreshes its display name.
// Used by the Google sign-in flow, where no password is involved.
func (r *HRRepository) Upsert(ctx context.Context, hr domain.HR) (*domain.HR, error) {
	var result domain.HR
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO hrs (name, email, password)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email)
		 DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, email, password, created_at`,
		hr.Name, hr.Email, hr.PasswordHash,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("upsert hr: %w", err)
	}
	return &result, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
