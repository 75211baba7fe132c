package domain

import (
	"time"

	"github.com/lib/pq"
)

// Job represents a job posting owned by one HR account.
type Job struct {
	JobID                   int64          `json:"job_id" db:"job_id"`
	HRID                    int64          `json:"hr_id" db:"hr_id"`
	JobTitle                string         `json:"job_title" db:"job_title"`
	JobDescription          string         `json:"job_description" db:"job_description"`
	RequiredExperienceYears int            `json:"required_experience_years" db:"required_experience_years"`
	Tags                    pq.StringArray `json:"tags" db:"tags"`
	Location                *string        `json:"location,omitempty" db:"location"`
	SalaryRange             *string        `json:"salary_range,omitempty" db:"salary_range"`
	AIGeneratedSummary      *string        `json:"ai_generated_summary,omitempty" db:"ai_generated_summary"`
	IsActive                bool           `json:"is_active" db:"is_active"`
	CreatedAt               time.Time      `json:"created_at" db:"created_at"`
	ExpiryDate              *time.Time     `json:"expiry_date,omitempty" db:"expiry_date"`
}
