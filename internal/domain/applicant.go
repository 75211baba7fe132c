package domain

import (
	"fmt"
	"strings"
	"time"
)

// ApplicantStatus represents the review state of an application.
type ApplicantStatus string

const (
	ApplicantStatusPending   ApplicantStatus = "pending"
	ApplicantStatusScheduled ApplicantStatus = "scheduled"
	ApplicantStatusReviewed  ApplicantStatus = "reviewed"
	ApplicantStatusRejected  ApplicantStatus = "rejected"
	ApplicantStatusHired     ApplicantStatus = "hired"
)

// ParseApplicantStatus normalizes a status string to lowercase and rejects
// values outside the five known states. Any state may transition to any
// other; only membership is checked.
func ParseApplicantStatus(s string) (ApplicantStatus, error) {
	switch status := ApplicantStatus(strings.ToLower(s)); status {
	case ApplicantStatusPending, ApplicantStatusScheduled, ApplicantStatusReviewed,
		ApplicantStatusRejected, ApplicantStatusHired:
		return status, nil
	default:
		return "", &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("must be one of: pending, scheduled, reviewed, rejected, hired (got %q)", s),
		}
	}
}

// Applicant represents one candidate's submission against one job.
// At most one Applicant may exist per (job_id, email) pair.
type Applicant struct {
	ApplicantID        int64           `json:"applicant_id" db:"applicant_id"`
	JobID              int64           `json:"job_id" db:"job_id"`
	FullName           string          `json:"full_name" db:"full_name"`
	Email              string          `json:"email" db:"email"`
	Phone              *string         `json:"phone,omitempty" db:"phone"`
	DOB                *time.Time      `json:"dob,omitempty" db:"dob"`
	ExperienceYears    int             `json:"experience_years" db:"experience_years"`
	DetailBox          *string         `json:"detail_box,omitempty" db:"detail_box"`
	ResumeURL          string          `json:"resume_url" db:"resume_url"`
	AIGeneratedScore   *float64        `json:"ai_generated_score,omitempty" db:"ai_generated_score"`
	AIGeneratedSummary *string         `json:"ai_generated_summary,omitempty" db:"ai_generated_summary"`
	Status             ApplicantStatus `json:"status" db:"status"`
	AppliedAt          time.Time       `json:"applied_at" db:"applied_at"`
}

// ApplicantDetail is an Applicant joined with its parent job's display fields.
type ApplicantDetail struct {
	Applicant
	JobTitle       string  `json:"job_title" db:"job_title"`
	JobDescription string  `json:"job_description" db:"job_description"`
	Location       *string `json:"location,omitempty" db:"location"`
	SalaryRange    *string `json:"salary_range,omitempty" db:"salary_range"`
}
