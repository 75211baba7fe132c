package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/velocity-h/peoplepulse/internal/domain"
)

const jobColumns = `job_id, hr_id, job_title, job_description, required_experience_years,
	 tags, location, salary_range, ai_generated_summary, is_active, created_at, expiry_date`

// JobRepository handles job posting data access.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job posting and returns it with generated fields.
func (r *JobRepository) Create(ctx context.Context, job domain.Job) (*domain.Job, error) {
	var result domain.Job
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO jobs (hr_id, job_title, job_description, required_experience_years,
		                   tags, location, salary_range, expiry_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+jobColumns,
		job.HRID, job.JobTitle, job.JobDescription, job.RequiredExperienceYears,
		job.Tags, job.Location, job.SalaryRange, job.ExpiryDate,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &result, nil
}

// SetSummary stores the AI-generated summary on a job.
func (r *JobRepository) SetSummary(ctx context.Context, jobID int64, summary string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET ai_generated_summary = $1 WHERE job_id = $2`, summary, jobID); err != nil {
		return fmt.Errorf("set job summary: %w", err)
	}
	return nil
}

// FindByID retrieves a job by ID regardless of owner.
func (r *JobRepository) FindByID(ctx context.Context, jobID int64) (*domain.Job, error) {
	var job domain.Job
	err := r.db.GetContext(ctx, &job,
		`SELECT `+jobColumns+` FROM jobs WHERE job_id = $1`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find job by id %d: %w", jobID, err)
	}
	return &job, nil
}

// ListByOwner retrieves all jobs owned by an HR account, newest first.
func (r *JobRepository) ListByOwner(ctx context.Context, hrID int64) ([]domain.Job, error) {
	jobs := []domain.Job{}
	err := r.db.SelectContext(ctx, &jobs,
		`SELECT `+jobColumns+` FROM jobs WHERE hr_id = $1 ORDER BY created_at DESC`, hrID)
	if err != nil {
		return nil, fmt.Errorf("list jobs by owner: %w", err)
	}
	return jobs, nil
}

// ListPublic retrieves active, unexpired jobs for the public board, newest first.
func (r *JobRepository) ListPublic(ctx context.Context) ([]domain.Job, error) {
	jobs := []domain.Job{}
	err := r.db.SelectContext(ctx, &jobs,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE is_active = true AND (expiry_date IS NULL OR expiry_date > NOW())
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list public jobs: %w", err)
	}
	return jobs, nil
}

// Update full-replaces the editable fields of a job owned by hrID. A job that
// does not exist or belongs to someone else yields ErrNotFound either way.
func (r *JobRepository) Update(ctx context.Context, hrID int64, job domain.Job) (*domain.Job, error) {
	var result domain.Job
	err := r.db.QueryRowxContext(ctx,
		`UPDATE jobs
		 SET job_title = $1, job_description = $2, required_experience_years = $3,
		     tags = $4, location = $5, salary_range = $6, expiry_date = $7
		 WHERE job_id = $8 AND hr_id = $9
		 RETURNING `+jobColumns,
		job.JobTitle, job.JobDescription, job.RequiredExperienceYears,
		job.Tags, job.Location, job.SalaryRange, job.ExpiryDate,
		job.JobID, hrID,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update job %d: %w", job.JobID, err)
	}
	return &result, nil
}

// SetActive toggles the is_active flag on an owned job.
func (r *JobRepository) SetActive(ctx context.Context, hrID, jobID int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET is_active = $1 WHERE job_id = $2 AND hr_id = $3`, active, jobID, hrID)
	if err != nil {
		return fmt.Errorf("set job active: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set job active rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an owned job and all dependent applicants and schedules in
// one transaction. The schema's ON DELETE CASCADE backs the same guarantee;
// the explicit deletes keep the invariant visible and testable.
func (r *JobRepository) Delete(ctx context.Context, hrID, jobID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete job tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scheduling WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("delete job schedules: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM applicants WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("delete job applicants: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM jobs WHERE job_id = $1 AND hr_id = $2`, jobID, hrID)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete job rows: %w", err)
	}
	if rows == 0 {
		// Rollback keeps the dependents when the job was not ours to delete.
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete job tx: %w", err)
	}
	return nil
}
