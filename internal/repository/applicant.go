package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/velocity-h/peoplepulse/internal/domain"
)

const applicantColumns = `applicant_id, job_id, full_name, email, phone, dob, experience_years,
	 detail_box, resume_url, ai_generated_score, ai_generated_summary, status, applied_at`

// ApplicantRepository handles application data access.
type ApplicantRepository struct {
	db *sqlx.DB
}

// NewApplicantRepository creates a new ApplicantRepository.
func NewApplicantRepository(db *sqlx.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

// Create inserts a new application. A concurrent duplicate that slips past
// the pre-check trips the UNIQUE(job_id, email) constraint, which is
// translated to the same ErrConflict as the pre-check.
func (r *ApplicantRepository) Create(ctx context.Context, a domain.Applicant) (*domain.Applicant, error) {
	var result domain.Applicant
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO applicants (job_id, full_name, email, phone, dob, experience_years,
		                         detail_box, resume_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+applicantColumns,
		a.JobID, a.FullName, a.Email, a.Phone, a.DOB, a.ExperienceYears,
		a.DetailBox, a.ResumeURL,
	).StructScan(&result)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: already applied for this job", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create applicant: %w", err)
	}
	return &result, nil
}

// Exists reports whether an application already exists for (jobID, email).
func (r *ApplicantRepository) Exists(ctx context.Context, jobID int64, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM applicants WHERE job_id = $1 AND email = $2)`, jobID, email)
	if err != nil {
		return false, fmt.Errorf("check duplicate application: %w", err)
	}
	return exists, nil
}

// SetAnalysis stores the AI score and summary on an application.
func (r *ApplicantRepository) SetAnalysis(ctx context.Context, applicantID int64, score float64, summary string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE applicants SET ai_generated_score = $1, ai_generated_summary = $2
		 WHERE applicant_id = $3`, score, summary, applicantID); err != nil {
		return fmt.Errorf("set applicant analysis: %w", err)
	}
	return nil
}

// FindOwned retrieves an application joined with its job, only when the job
// belongs to hrID. Absent and not-owned both yield ErrNotFound.
func (r *ApplicantRepository) FindOwned(ctx context.Context, hrID, applicantID int64) (*domain.ApplicantDetail, error) {
	var detail domain.ApplicantDetail
	err := r.db.GetContext(ctx, &detail,
		`SELECT a.applicant_id, a.job_id, a.full_name, a.email, a.phone, a.dob,
		        a.experience_years, a.detail_box, a.resume_url, a.ai_generated_score,
		        a.ai_generated_summary, a.status, a.applied_at,
		        j.job_title, j.job_description, j.location, j.salary_range
		 FROM applicants a
		 JOIN jobs j ON a.job_id = j.job_id
		 WHERE a.applicant_id = $1 AND j.hr_id = $2`, applicantID, hrID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find applicant %d: %w", applicantID, err)
	}
	return &detail, nil
}

// ListByJob retrieves all applications for an owned job, newest first.
func (r *ApplicantRepository) ListByJob(ctx context.Context, hrID, jobID int64) ([]domain.Applicant, error) {
	var owned bool
	err := r.db.GetContext(ctx, &owned,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE job_id = $1 AND hr_id = $2)`, jobID, hrID)
	if err != nil {
		return nil, fmt.Errorf("check job ownership: %w", err)
	}
	if !owned {
		return nil, domain.ErrNotFound
	}

	applicants := []domain.Applicant{}
	err = r.db.SelectContext(ctx, &applicants,
		`SELECT `+applicantColumns+`
		 FROM applicants WHERE job_id = $1 ORDER BY applied_at DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applicants for job %d: %w", jobID, err)
	}
	return applicants, nil
}

// UpdateStatus sets the status on an application whose job belongs to hrID.
func (r *ApplicantRepository) UpdateStatus(ctx context.Context, hrID, applicantID int64, status domain.ApplicantStatus) (*domain.Applicant, error) {
	var result domain.Applicant
	err := r.db.QueryRowxContext(ctx,
		`UPDATE applicants a
		 SET status = $1
		 FROM jobs j
		 WHERE a.applicant_id = $2 AND a.job_id = j.job_id AND j.hr_id = $3
		 RETURNING a.applicant_id, a.job_id, a.full_name, a.email, a.phone, a.dob,
		           a.experience_years, a.detail_box, a.resume_url, a.ai_generated_score,
		           a.ai_generated_summary, a.status, a.applied_at`,
		status, applicantID, hrID,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update applicant %d status: %w", applicantID, err)
	}
	return &result, nil
}
