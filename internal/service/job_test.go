package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/velocity-h/peoplepulse/internal/ai"
	"github.com/velocity-h/peoplepulse/internal/domain"
)

type fakeJobStore struct {
	jobs       map[int64]*domain.Job
	applicants map[int64]int64 // applicant id -> job id
	schedules  map[int64]int64 // schedule id -> job id
	nextID     int64
	summaryErr error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		jobs:       map[int64]*domain.Job{},
		applicants: map[int64]int64{},
		schedules:  map[int64]int64{},
	}
}

func (f *fakeJobStore) Create(_ context.Context, job domain.Job) (*domain.Job, error) {
	f.nextID++
	job.JobID = f.nextID
	job.IsActive = true
	job.CreatedAt = time.Now()
	f.jobs[job.JobID] = &job
	stored := job
	return &stored, nil
}

func (f *fakeJobStore) SetSummary(_ context.Context, jobID int64, summary string) error {
	if f.summaryErr != nil {
		return f.summaryErr
	}
	job, ok := f.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	job.AIGeneratedSummary = &summary
	return nil
}

func (f *fakeJobStore) FindByID(_ context.Context, jobID int64) (*domain.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stored := *job
	return &stored, nil
}

func (f *fakeJobStore) ListByOwner(_ context.Context, hrID int64) ([]domain.Job, error) {
	var out []domain.Job
	for _, job := range f.jobs {
		if job.HRID == hrID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobStore) ListPublic(context.Context) ([]domain.Job, error) {
	// Returns everything so the test exercises the service-level filter.
	var out []domain.Job
	for _, job := range f.jobs {
		out = append(out, *job)
	}
	return out, nil
}

func (f *fakeJobStore) Update(_ context.Context, hrID int64, job domain.Job) (*domain.Job, error) {
	existing, ok := f.jobs[job.JobID]
	if !ok || existing.HRID != hrID {
		return nil, domain.ErrNotFound
	}
	job.HRID = existing.HRID
	job.IsActive = existing.IsActive
	job.CreatedAt = existing.CreatedAt
	f.jobs[job.JobID] = &job
	stored := job
	return &stored, nil
}

func (f *fakeJobStore) SetActive(_ context.Context, hrID, jobID int64, active bool) error {
	job, ok := f.jobs[jobID]
	if !ok || job.HRID != hrID {
		return domain.ErrNotFound
	}
	job.IsActive = active
	return nil
}

func (f *fakeJobStore) Delete(_ context.Context, hrID, jobID int64) error {
	job, ok := f.jobs[jobID]
	if !ok || job.HRID != hrID {
		return domain.ErrNotFound
	}
	// Cascades atomically, like the storage layer.
	for id, jid := range f.schedules {
		if jid == jobID {
			delete(f.schedules, id)
		}
	}
	for id, jid := range f.applicants {
		if jid == jobID {
			delete(f.applicants, id)
		}
	}
	delete(f.jobs, jobID)
	return nil
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) GenerateJobSummary(context.Context, ai.JobSummaryRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func validJobInput() CreateJobInput {
	return CreateJobInput{
		JobTitle:       "Backend Engineer",
		JobDescription: "Build services in Go.",
		Tags:           []string{"go", "postgres"},
	}
}

func TestCreateJobWithSummary(t *testing.T) {
	store := newFakeJobStore()
	svc := NewJobService(store, &fakeSummarizer{summary: "A solid backend role."})

	job, err := svc.Create(context.Background(), 1, validJobInput())
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if !job.IsActive {
		t.Error("new job must be active")
	}
	if job.AIGeneratedSummary == nil || *job.AIGeneratedSummary != "A solid backend role." {
		t.Errorf("ai_generated_summary = %v, want %q", job.AIGeneratedSummary, "A solid backend role.")
	}
}

func TestCreateJobSummarizerFailureStillSucceeds(t *testing.T) {
	store := newFakeJobStore()
	svc := NewJobService(store, &fakeSummarizer{err: context.DeadlineExceeded})

	job, err := svc.Create(context.Background(), 1, validJobInput())
	if err != nil {
		t.Fatalf("Create() must succeed when summarization fails, got: %v", err)
	}
	if job.AIGeneratedSummary != nil {
		t.Errorf("ai_generated_summary = %v, want nil", job.AIGeneratedSummary)
	}
	if len(store.jobs) != 1 {
		t.Errorf("stored jobs = %d, want 1", len(store.jobs))
	}
}

func TestCreateJobValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateJobInput)
		field  string
	}{
		{name: "empty title", mutate: func(in *CreateJobInput) { in.JobTitle = "" }, field: "job_title"},
		{name: "blank description", mutate: func(in *CreateJobInput) { in.JobDescription = "   " }, field: "job_description"},
		{name: "negative experience", mutate: func(in *CreateJobInput) { in.RequiredExperienceYears = -2 }, field: "required_experience_years"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewJobService(newFakeJobStore(), &fakeSummarizer{summary: "s"})

			in := validJobInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), 1, in)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("validation field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestListPublicFiltersVisibility(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	store := newFakeJobStore()
	store.jobs[1] = &domain.Job{JobID: 1, JobTitle: "active no expiry", IsActive: true}
	store.jobs[2] = &domain.Job{JobID: 2, JobTitle: "active future expiry", IsActive: true, ExpiryDate: &future}
	store.jobs[3] = &domain.Job{JobID: 3, JobTitle: "expired", IsActive: true, ExpiryDate: &past}
	store.jobs[4] = &domain.Job{JobID: 4, JobTitle: "inactive", IsActive: false}

	svc := NewJobService(store, &fakeSummarizer{})
	svc.now = func() time.Time { return now }

	jobs, err := svc.ListPublic(context.Background())
	if err != nil {
		t.Fatalf("ListPublic() unexpected error: %v", err)
	}

	got := map[int64]bool{}
	for _, job := range jobs {
		got[job.JobID] = true
	}
	if len(got) != 2 || !got[1] || !got[2] {
		t.Errorf("visible jobs = %v, want exactly {1, 2}", got)
	}
}

func TestDeleteJobCascades(t *testing.T) {
	store := newFakeJobStore()
	svc := NewJobService(store, &fakeSummarizer{summary: "s"})

	job, err := svc.Create(context.Background(), 1, validJobInput())
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	store.applicants[10] = job.JobID
	store.applicants[11] = job.JobID
	store.schedules[20] = job.JobID

	if err := svc.Delete(context.Background(), 1, job.JobID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if len(store.applicants) != 0 {
		t.Errorf("orphan applicants = %d, want 0", len(store.applicants))
	}
	if len(store.schedules) != 0 {
		t.Errorf("orphan schedules = %d, want 0", len(store.schedules))
	}
}

func TestDeleteJobNotOwned(t *testing.T) {
	store := newFakeJobStore()
	svc := NewJobService(store, &fakeSummarizer{summary: "s"})

	job, err := svc.Create(context.Background(), 1, validJobInput())
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), 2, job.JobID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete() by non-owner error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), 1, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete() of missing job error = %v, want ErrNotFound", err)
	}
}

func TestSetActiveToggles(t *testing.T) {
	store := newFakeJobStore()
	svc := NewJobService(store, &fakeSummarizer{summary: "s"})

	job, err := svc.Create(context.Background(), 1, validJobInput())
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := svc.SetActive(context.Background(), 1, job.JobID, false); err != nil {
		t.Fatalf("SetActive() unexpected error: %v", err)
	}
	if store.jobs[job.JobID].IsActive {
		t.Error("job still active after SetActive(false)")
	}
	if err := svc.SetActive(context.Background(), 2, job.JobID, true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("SetActive() by non-owner error = %v, want ErrNotFound", err)
	}
}
