package domain

import (
	"testing"
	"time"
)

func TestScheduleDisplayStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		interviewTime time.Time
		want          ScheduleStatus
	}{
		{name: "one hour ahead", interviewTime: now.Add(time.Hour), want: ScheduleStatusUpcoming},
		{name: "one hour ago", interviewTime: now.Add(-time.Hour), want: ScheduleStatusCompleted},
		{name: "one nanosecond ahead", interviewTime: now.Add(time.Nanosecond), want: ScheduleStatusUpcoming},
		{name: "exactly now is completed", interviewTime: now, want: ScheduleStatusCompleted},
		{name: "far past", interviewTime: now.AddDate(-1, 0, 0), want: ScheduleStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Schedule{InterviewTime: tt.interviewTime}
			if got := s.DisplayStatus(now); got != tt.want {
				t.Errorf("DisplayStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
