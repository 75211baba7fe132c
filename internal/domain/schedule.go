package domain

import "time"

// ScheduleStatus is the display state of an interview slot. It is derived
// from interview_time at read time and never persisted.
type ScheduleStatus string

const (
	ScheduleStatusUpcoming  ScheduleStatus = "upcoming"
	ScheduleStatusCompleted ScheduleStatus = "completed"
)

// Schedule represents one interview time slot linked to one applicant.
// MeetLink is written by the external calendar collaborator, never through
// this API.
type Schedule struct {
	SchedulingID  int64     `json:"scheduling_id" db:"scheduling_id"`
	ApplicantID   int64     `json:"applicant_id" db:"applicant_id"`
	JobID         int64     `json:"job_id" db:"job_id"`
	InterviewTime time.Time `json:"interview_time" db:"interview_time"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	MeetLink      *string   `json:"meet_link,omitempty" db:"meet_link"`
}

// DisplayStatus derives upcoming/completed from the interview time. The
// boundary is exactly now: a slot at now is completed.
func (s Schedule) DisplayStatus(now time.Time) ScheduleStatus {
	if s.InterviewTime.After(now) {
		return ScheduleStatusUpcoming
	}
	return ScheduleStatusCompleted
}
