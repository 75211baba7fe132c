package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/velocity-h/peoplepulse/internal/ai"
	"github.com/velocity-h/peoplepulse/internal/domain"
)

// JobStore defines the job data access interface consumed by JobService.
type JobStore interface {
	Create(ctx context.Context, job domain.Job) (*domain.Job, error)
	SetSummary(ctx context.Context, jobID int64, summary string) error
	FindByID(ctx context.Context, jobID int64) (*domain.Job, error)
	ListByOwner(ctx context.Context, hrID int64) ([]domain.Job, error)
	ListPublic(ctx context.Context) ([]domain.Job, error)
	Update(ctx context.Context, hrID int64, job domain.Job) (*domain.Job, error)
	SetActive(ctx context.Context, hrID, jobID int64, active bool) error
	Delete(ctx context.Context, hrID, jobID int64) error
}

// JobSummarizer generates an AI summary for a job posting.
type JobSummarizer interface {
	GenerateJobSummary(ctx context.Context, req ai.JobSummaryRequest) (string, error)
}

// CreateJobInput holds the fields for a new job posting.
type CreateJobInput struct {
	JobTitle                string
	JobDescription          string
	RequiredExperienceYears int
	Tags                    []string
	Location                *string
	SalaryRange             *string
	ExpiryDate              *time.Time
}

// JobService manages the job posting lifecycle.
type JobService struct {
	jobs       JobStore
	summarizer JobSummarizer
	now        func() time.Time
}

// NewJobService creates a new JobService.
func NewJobService(jobs JobStore, summarizer JobSummarizer) *JobService {
	return &JobService{jobs: jobs, summarizer: summarizer, now: time.Now}
}

// Create validates and persists a job, then asks the scoring service for a
// summary. Summarization is best-effort: any failure leaves the summary null
// and the creation still succeeds.
func (s *JobService) Create(ctx context.Context, hrID int64, in CreateJobInput) (*domain.Job, error) {
	if strings.TrimSpace(in.JobTitle) == "" {
		return nil, &domain.ValidationError{Field: "job_title", Message: "is required"}
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, &domain.ValidationError{Field: "job_description", Message: "is required"}
	}
	if in.RequiredExperienceYears < 0 {
		return nil, &domain.ValidationError{Field: "required_experience_years", Message: "must not be negative"}
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	job, err := s.jobs.Create(ctx, domain.Job{
		HRID:                    hrID,
		JobTitle:                in.JobTitle,
		JobDescription:          in.JobDescription,
		RequiredExperienceYears: in.RequiredExperienceYears,
		Tags:                    tags,
		Location:                in.Location,
		SalaryRange:             in.SalaryRange,
		ExpiryDate:              in.ExpiryDate,
	})
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.GenerateJobSummary(ctx, ai.JobSummaryRequest{
		JobTitle:                job.JobTitle,
		JobDescription:          job.JobDescription,
		RequiredExperienceYears: job.RequiredExperienceYears,
		Tags:                    tags,
	})
	if err != nil {
		slog.Error("job summary generation failed", "job_id", job.JobID, "error", err)
		return job, nil
	}

	if err := s.jobs.SetSummary(ctx, job.JobID, summary); err != nil {
		slog.Error("storing job summary failed", "job_id", job.JobID, "error", err)
		return job, nil
	}
	job.AIGeneratedSummary = &summary
	return job, nil
}

// ListOwned returns all jobs owned by an HR account, newest first.
func (s *JobService) ListOwned(ctx context.Context, hrID int64) ([]domain.Job, error) {
	return s.jobs.ListByOwner(ctx, hrID)
}

// ListPublic returns active, unexpired jobs for the public board, newest
// first. The store already filters in SQL; the rule is applied here as well
// so visibility stays enforced regardless of the backing store.
func (s *JobService) ListPublic(ctx context.Context) ([]domain.Job, error) {
	jobs, err := s.jobs.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	visible := make([]domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.IsActive && (job.ExpiryDate == nil || job.ExpiryDate.After(now)) {
			visible = append(visible, job)
		}
	}
	return visible, nil
}

// Update full-replaces the editable fields of an owned job.
func (s *JobService) Update(ctx context.Context, hrID, jobID int64, in CreateJobInput) (*domain.Job, error) {
	if strings.TrimSpace(in.JobTitle) == "" {
		return nil, &domain.ValidationError{Field: "job_title", Message: "is required"}
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, &domain.ValidationError{Field: "job_description", Message: "is required"}
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return s.jobs.Update(ctx, hrID, domain.Job{
		JobID:                   jobID,
		JobTitle:                in.JobTitle,
		JobDescription:          in.JobDescription,
		RequiredExperienceYears: in.RequiredExperienceYears,
		Tags:                    tags,
		Location:                in.Location,
		SalaryRange:             in.SalaryRange,
		ExpiryDate:              in.ExpiryDate,
	})
}

// SetActive toggles the is_active flag on an owned job.
func (s *JobService) SetActive(ctx context.Context, hrID, jobID int64, active bool) error {
	return s.jobs.SetActive(ctx, hrID, jobID, active)
}

// Delete removes an owned job together with all of its applicants and
// schedules. The cascade is atomic at the storage layer.
func (s *JobService) Delete(ctx context.Context, hrID, jobID int64) error {
	return s.jobs.Delete(ctx, hrID, jobID)
}
