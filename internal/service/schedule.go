package service

import (
	"context"
	"time"

	"github.com/velocity-h/peoplepulse/internal/domain"
)

// ScheduleStore defines the schedule data access interface consumed by
// ScheduleService. Create and Delete are transactional at the storage layer:
// the schedule write and the applicant status change land together or not at
// all.
type ScheduleStore interface {
	Create(ctx context.Context, hrID int64, s domain.Schedule) (*domain.Schedule, error)
	Update(ctx context.Context, hrID, schedulingID int64, interviewTime time.Time, notes *string) (*domain.Schedule, error)
	Delete(ctx context.Context, hrID, schedulingID int64) error
	ListByOwner(ctx context.Context, hrID int64) ([]domain.Schedule, error)
}

// ScheduleView is a schedule with its derived display status.
type ScheduleView struct {
	domain.Schedule
	Status domain.ScheduleStatus `json:"status"`
}

// ScheduleService manages interview schedules.
type ScheduleService struct {
	schedules ScheduleStore
	now       func() time.Time
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(schedules ScheduleStore) *ScheduleService {
	return &ScheduleService{schedules: schedules, now: time.Now}
}

// CreateScheduleInput holds the fields for a new interview slot.
type CreateScheduleInput struct {
	ApplicantID   int64
	JobID         int64
	InterviewTime time.Time
	Notes         *string
}

// Create books an interview slot for an owned applicant and marks the
// applicant "scheduled" in the same transaction. The interview time may be
// in the past; no guard is applied.
func (s *ScheduleService) Create(ctx context.Context, hrID int64, in CreateScheduleInput) (*ScheduleView, error) {
	if in.ApplicantID <= 0 {
		return nil, &domain.ValidationError{Field: "applicant_id", Message: "is required"}
	}
	if in.JobID <= 0 {
		return nil, &domain.ValidationError{Field: "job_id", Message: "is required"}
	}
	if in.InterviewTime.IsZero() {
		return nil, &domain.ValidationError{Field: "interview_time", Message: "is required"}
	}

	created, err := s.schedules.Create(ctx, hrID, domain.Schedule{
		ApplicantID:   in.ApplicantID,
		JobID:         in.JobID,
		InterviewTime: in.InterviewTime,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.view(*created), nil
}

// Update moves an owned schedule's time and notes.
func (s *ScheduleService) Update(ctx context.Context, hrID, schedulingID int64, interviewTime time.Time, notes *string) (*ScheduleView, error) {
	if interviewTime.IsZero() {
		return nil, &domain.ValidationError{Field: "interview_time", Message: "is required"}
	}
	updated, err := s.schedules.Update(ctx, hrID, schedulingID, interviewTime, notes)
	if err != nil {
		return nil, err
	}
	return s.view(*updated), nil
}

// Delete removes an owned schedule, reverting the applicant to "pending" in
// the same transaction.
func (s *ScheduleService) Delete(ctx context.Context, hrID, schedulingID int64) error {
	return s.schedules.Delete(ctx, hrID, schedulingID)
}

// List retrieves all schedules whose parent job belongs to hrID, each with
// its display status derived at read time.
func (s *ScheduleService) List(ctx context.Context, hrID int64) ([]ScheduleView, error) {
	schedules, err := s.schedules.ListByOwner(ctx, hrID)
	if err != nil {
		return nil, err
	}
	views := make([]ScheduleView, 0, len(schedules))
	for _, sched := range schedules {
		views = append(views, *s.view(sched))
	}
	return views, nil
}

func (s *ScheduleService) view(sched domain.Schedule) *ScheduleView {
	return &ScheduleView{
		Schedule: sched,
		Status:   sched.DisplayStatus(s.now()),
	}
}
