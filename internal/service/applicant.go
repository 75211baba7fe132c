package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/velocity-h/peoplepulse/internal/ai"
	"github.com/velocity-h/peoplepulse/internal/domain"
	"github.com/velocity-h/peoplepulse/internal/mail"
)

// ApplicantStore defines the application data access interface consumed by
// ApplicantService.
type ApplicantStore interface {
	Create(ctx context.Context, a domain.Applicant) (*domain.Applicant, error)
	Exists(ctx context.Context, jobID int64, email string) (bool, error)
	SetAnalysis(ctx context.Context, applicantID int64, score float64, summary string) error
	FindOwned(ctx context.Context, hrID, applicantID int64) (*domain.ApplicantDetail, error)
	ListByJob(ctx context.Context, hrID, jobID int64) ([]domain.Applicant, error)
	UpdateStatus(ctx context.Context, hrID, applicantID int64, status domain.ApplicantStatus) (*domain.Applicant, error)
}

// JobReader looks up the parent job during intake.
type JobReader interface {
	FindByID(ctx context.Context, jobID int64) (*domain.Job, error)
}

// ResumeUploader persists a resume file and returns its public URL.
type ResumeUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

// ResumeAnalyzer scores a resume against a job description.
type ResumeAnalyzer interface {
	AnalyzeResume(ctx context.Context, req ai.ResumeAnalysisRequest) (*ai.ResumeAnalysis, error)
}

// Mailer sends the application confirmation email.
type Mailer interface {
	SendApplicationConfirmation(ctx context.Context, c mail.Confirmation) error
}

// Resume is an uploaded resume file as received from the candidate.
type Resume struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SubmitApplicationInput holds one candidate submission.
type SubmitApplicationInput struct {
	JobID           int64
	FullName        string
	Email           string
	Phone           *string
	DOB             *time.Time
	ExperienceYears int
	DetailBox       *string
	Resume          *Resume
}

// ApplicantService runs the application intake state machine and manages
// applicant access for HR users.
type ApplicantService struct {
	applicants ApplicantStore
	jobs       JobReader
	resumes    ResumeUploader
	analyzer   ResumeAnalyzer
	mailer     Mailer
}

// NewApplicantService creates a new ApplicantService.
func NewApplicantService(applicants ApplicantStore, jobs JobReader, resumes ResumeUploader, analyzer ResumeAnalyzer, mailer Mailer) *ApplicantService {
	return &ApplicantService{
		applicants: applicants,
		jobs:       jobs,
		resumes:    resumes,
		analyzer:   analyzer,
		mailer:     mailer,
	}
}

// Submit accepts a candidate application. The steps are strictly ordered:
// validate, duplicate check, resume upload, row insert, AI analysis, email.
// No side effect happens before its predecessors succeed; upload failure
// aborts with nothing created; AI and email failures are swallowed so the
// submission still succeeds. The AI call is waited on before returning.
func (s *ApplicantService) Submit(ctx context.Context, in SubmitApplicationInput) (*domain.Applicant, error) {
	if err := validateSubmission(in); err != nil {
		return nil, err
	}

	exists, err := s.applicants.Exists(ctx, in.JobID, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: already applied for this job", domain.ErrConflict)
	}

	resumeURL, err := s.resumes.Upload(ctx, in.Resume.Filename, in.Resume.Content, in.Resume.Size, in.Resume.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: resume upload failed: %v", domain.ErrUpstream, err)
	}

	applicant, err := s.applicants.Create(ctx, domain.Applicant{
		JobID:           in.JobID,
		FullName:        in.FullName,
		Email:           in.Email,
		Phone:           in.Phone,
		DOB:             in.DOB,
		ExperienceYears: in.ExperienceYears,
		DetailBox:       in.DetailBox,
		ResumeURL:       resumeURL,
	})
	if err != nil {
		return nil, err
	}

	s.analyze(ctx, applicant, resumeURL, in.DetailBox)

	if err := s.mailer.SendApplicationConfirmation(ctx, s.confirmation(ctx, applicant)); err != nil {
		slog.Error("confirmation email failed", "applicant_id", applicant.ApplicantID, "error", err)
	}

	return applicant, nil
}

// analyze runs the synchronous AI scoring step. It blocks until the call
// resolves or times out; any failure leaves the AI fields null.
func (s *ApplicantService) analyze(ctx context.Context, applicant *domain.Applicant, resumeURL string, coverLetter *string) {
	job, err := s.jobs.FindByID(ctx, applicant.JobID)
	if err != nil {
		slog.Error("job lookup for analysis failed", "applicant_id", applicant.ApplicantID, "error", err)
		return
	}

	var cover string
	if coverLetter != nil {
		cover = *coverLetter
	}

	analysis, err := s.analyzer.AnalyzeResume(ctx, ai.ResumeAnalysisRequest{
		ResumeURL:      resumeURL,
		JobDescription: job.JobDescription,
		CoverLetter:    cover,
	})
	if err != nil {
		slog.Error("resume analysis failed", "applicant_id", applicant.ApplicantID, "error", err)
		return
	}

	if err := s.applicants.SetAnalysis(ctx, applicant.ApplicantID, analysis.Score, analysis.Summary); err != nil {
		slog.Error("storing resume analysis failed", "applicant_id", applicant.ApplicantID, "error", err)
		return
	}
	applicant.AIGeneratedScore = &analysis.Score
	applicant.AIGeneratedSummary = &analysis.Summary
}

func (s *ApplicantService) confirmation(ctx context.Context, applicant *domain.Applicant) mail.Confirmation {
	c := mail.Confirmation{
		ApplicantEmail: applicant.Email,
		ApplicantName:  applicant.FullName,
		JobID:          applicant.JobID,
	}
	if job, err := s.jobs.FindByID(ctx, applicant.JobID); err == nil {
		c.JobTitle = job.JobTitle
	}
	return c
}

// Get retrieves an application with job details, enforcing ownership through
// the parent job. Absent and not-owned are indistinguishable.
func (s *ApplicantService) Get(ctx context.Context, hrID, applicantID int64) (*domain.ApplicantDetail, error) {
	return s.applicants.FindOwned(ctx, hrID, applicantID)
}

// ListByJob retrieves all applications for an owned job.
func (s *ApplicantService) ListByJob(ctx context.Context, hrID, jobID int64) ([]domain.Applicant, error) {
	return s.applicants.ListByJob(ctx, hrID, jobID)
}

// UpdateStatus sets an application's status. The status is normalized to
// lowercase and checked for membership only; any transition is allowed.
func (s *ApplicantService) UpdateStatus(ctx context.Context, hrID, applicantID int64, status string) (*domain.Applicant, error) {
	parsed, err := domain.ParseApplicantStatus(status)
	if err != nil {
		return nil, err
	}
	return s.applicants.UpdateStatus(ctx, hrID, applicantID, parsed)
}

func validateSubmission(in SubmitApplicationInput) error {
	switch {
	case in.JobID <= 0:
		return &domain.ValidationError{Field: "job_id", Message: "is required"}
	case strings.TrimSpace(in.FullName) == "":
		return &domain.ValidationError{Field: "full_name", Message: "is required"}
	case strings.TrimSpace(in.Email) == "":
		return &domain.ValidationError{Field: "email", Message: "is required"}
	case in.Resume == nil || in.Resume.Content == nil:
		return &domain.ValidationError{Field: "resume", Message: "is required"}
	case in.ExperienceYears < 0:
		return &domain.ValidationError{Field: "experience_years", Message: "must not be negative"}
	}
	return nil
}
