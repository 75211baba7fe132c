package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/velocity-h/peoplepulse/internal/domain"
)

const scheduleColumns = `scheduling_id, applicant_id, job_id, interview_time, notes, meet_link`

// ScheduleRepository handles interview schedule data access.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a schedule and flips the applicant to "scheduled" in one
// transaction: either both writes land or neither does. Ownership and the
// applicant/job pairing are enforced by the INSERT's subquery, so a foreign
// applicant, a mismatched job_id, and a nonexistent applicant are all the
// same ErrNotFound.
func (r *ScheduleRepository) Create(ctx context.Context, hrID int64, s domain.Schedule) (*domain.Schedule, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create schedule tx: %w", err)
	}
	defer tx.Rollback()

	var result domain.Schedule
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO scheduling (applicant_id, job_id, interview_time, notes)
		 SELECT a.applicant_id, a.job_id, $3, $4
		 FROM applicants a
		 JOIN jobs j ON a.job_id = j.job_id
		 WHERE a.applicant_id = $1 AND a.job_id = $2 AND j.hr_id = $5
		 RETURNING `+scheduleColumns,
		s.ApplicantID, s.JobID, s.InterviewTime, s.Notes, hrID,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE applicants SET status = $1 WHERE applicant_id = $2`,
		domain.ApplicantStatusScheduled, s.ApplicantID); err != nil {
		return nil, fmt.Errorf("mark applicant scheduled: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create schedule tx: %w", err)
	}
	return &result, nil
}

// Update moves an owned schedule's time and notes. Past times are allowed.
func (r *ScheduleRepository) Update(ctx context.Context, hrID, schedulingID int64, interviewTime time.Time, notes *string) (*domain.Schedule, error) {
	var result domain.Schedule
	err := r.db.QueryRowxContext(ctx,
		`UPDATE scheduling s
		 SET interview_time = $1, notes = $2
		 FROM jobs j
		 WHERE s.scheduling_id = $3 AND s.job_id = j.job_id AND j.hr_id = $4
		 RETURNING s.scheduling_id, s.applicant_id, s.job_id, s.interview_time, s.notes, s.meet_link`,
		interviewTime, notes, schedulingID, hrID,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update schedule %d: %w", schedulingID, err)
	}
	return &result, nil
}

// Delete removes an owned schedule and reverts its applicant to "pending"
// inside the same transaction.
func (r *ScheduleRepository) Delete(ctx context.Context, hrID, schedulingID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete schedule tx: %w", err)
	}
	defer tx.Rollback()

	var applicantID int64
	err = tx.QueryRowxContext(ctx,
		`DELETE FROM scheduling s
		 USING jobs j
		 WHERE s.scheduling_id = $1 AND s.job_id = j.job_id AND j.hr_id = $2
		 RETURNING s.applicant_id`, schedulingID, hrID,
	).Scan(&applicantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete schedule %d: %w", schedulingID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE applicants SET status = $1 WHERE applicant_id = $2`,
		domain.ApplicantStatusPending, applicantID); err != nil {
		return fmt.Errorf("revert applicant status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete schedule tx: %w", err)
	}
	return nil
}

// ListByOwner retrieves all schedules whose parent job belongs to hrID,
// soonest interview first.
func (r *ScheduleRepository) ListByOwner(ctx context.Context, hrID int64) ([]domain.Schedule, error) {
	schedules := []domain.Schedule{}
	err := r.db.SelectContext(ctx, &schedules,
		`SELECT s.scheduling_id, s.applicant_id, s.job_id, s.interview_time, s.notes, s.meet_link
		 FROM scheduling s
		 JOIN jobs j ON s.job_id = j.job_id
		 WHERE j.hr_id = $1
		 ORDER BY s.interview_time ASC`, hrID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}
