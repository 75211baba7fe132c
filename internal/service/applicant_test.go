package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/velocity-h/peoplepulse/internal/ai"
	"github.com/velocity-h/peoplepulse/internal/domain"
	"github.com/velocity-h/peoplepulse/internal/mail"
)

type fakeApplicantStore struct {
	rows        map[string]*domain.Applicant
	nextID      int64
	createErr   error
	analysisErr error
}

func newFakeApplicantStore() *fakeApplicantStore {
	return &fakeApplicantStore{rows: map[string]*domain.Applicant{}}
}

func appKey(jobID int64, email string) string {
	return fmt.Sprintf("%d|%s", jobID, email)
}

func (f *fakeApplicantStore) Create(_ context.Context, a domain.Applicant) (*domain.Applicant, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	key := appKey(a.JobID, a.Email)
	if _, dup := f.rows[key]; dup {
		// Mirrors the UNIQUE(job_id, email) constraint.
		return nil, fmt.Errorf("%w: already applied for this job", domain.ErrConflict)
	}
	f.nextID++
	a.ApplicantID = f.nextID
	a.Status = domain.ApplicantStatusPending
	f.rows[key] = &a
	stored := a
	return &stored, nil
}

func (f *fakeApplicantStore) Exists(_ context.Context, jobID int64, email string) (bool, error) {
	_, ok := f.rows[appKey(jobID, email)]
	return ok, nil
}

func (f *fakeApplicantStore) SetAnalysis(_ context.Context, applicantID int64, score float64, summary string) error {
	if f.analysisErr != nil {
		return f.analysisErr
	}
	for _, a := range f.rows {
		if a.ApplicantID == applicantID {
			a.AIGeneratedScore = &score
			a.AIGeneratedSummary = &summary
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeApplicantStore) FindOwned(_ context.Context, hrID, applicantID int64) (*domain.ApplicantDetail, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeApplicantStore) ListByJob(_ context.Context, hrID, jobID int64) ([]domain.Applicant, error) {
	return nil, nil
}

func (f *fakeApplicantStore) UpdateStatus(_ context.Context, hrID, applicantID int64, status domain.ApplicantStatus) (*domain.Applicant, error) {
	for _, a := range f.rows {
		if a.ApplicantID == applicantID {
			a.Status = status
			stored := *a
			return &stored, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeJobReader struct {
	job *domain.Job
	err error
}

func (f *fakeJobReader) FindByID(context.Context, int64) (*domain.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

type fakeUploader struct {
	calls int
	url   string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url + "/" + filename, nil
}

type fakeAnalyzer struct {
	calls  int
	result *ai.ResumeAnalysis
	err    error
}

func (f *fakeAnalyzer) AnalyzeResume(context.Context, ai.ResumeAnalysisRequest) (*ai.ResumeAnalysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeMailer struct {
	calls int
	last  mail.Confirmation
	err   error
}

func (f *fakeMailer) SendApplicationConfirmation(_ context.Context, c mail.Confirmation) error {
	f.calls++
	f.last = c
	return f.err
}

func validSubmission() SubmitApplicationInput {
	detail := "I would be a great fit."
	return SubmitApplicationInput{
		JobID:           7,
		FullName:        "Ada Lovelace",
		Email:           "a@x.com",
		ExperienceYears: 3,
		DetailBox:       &detail,
		Resume: &Resume{
			Filename:    "resume.pdf",
			ContentType: "application/pdf",
			Size:        1024,
			Content:     strings.NewReader("%PDF-1.4"),
		},
	}
}

func newIntakeService(store *fakeApplicantStore, uploader *fakeUploader, analyzer *fakeAnalyzer, mailer *fakeMailer) *ApplicantService {
	jobs := &fakeJobReader{job: &domain.Job{
		JobID:          7,
		JobTitle:       "Backend Engineer",
		JobDescription: "Build services in Go.",
	}}
	return NewApplicantService(store, jobs, uploader, analyzer, mailer)
}

func TestSubmitSuccessWithAnalysis(t *testing.T) {
	store := newFakeApplicantStore()
	uploader := &fakeUploader{url: "https://blob.example/resumes"}
	analyzer := &fakeAnalyzer{result: &ai.ResumeAnalysis{Score: 87.5, Summary: "Strong match"}}
	mailer := &fakeMailer{}

	svc := newIntakeService(store, uploader, analyzer, mailer)

	applicant, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}

	if applicant.Status != domain.ApplicantStatusPending {
		t.Errorf("status = %q, want pending", applicant.Status)
	}
	if applicant.ResumeURL == "" {
		t.Error("resume_url is empty")
	}
	if analyzer.calls != 1 {
		t.Errorf("analyzer calls = %d, want 1: the response must wait for analysis", analyzer.calls)
	}
	if applicant.AIGeneratedScore == nil || *applicant.AIGeneratedScore != 87.5 {
		t.Errorf("ai_generated_score = %v, want 87.5", applicant.AIGeneratedScore)
	}
	if applicant.AIGeneratedSummary == nil || *applicant.AIGeneratedSummary != "Strong match" {
		t.Errorf("ai_generated_summary = %v, want %q", applicant.AIGeneratedSummary, "Strong match")
	}
	if mailer.calls != 1 {
		t.Errorf("mailer calls = %d, want 1", mailer.calls)
	}
	if mailer.last.JobTitle != "Backend Engineer" {
		t.Errorf("confirmation job title = %q, want %q", mailer.last.JobTitle, "Backend Engineer")
	}
}

func TestSubmitAnalyzerFailureStillSucceeds(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "timeout", err: context.DeadlineExceeded},
		{name: "network failure", err: errors.New("connection refused")},
		{name: "non-2xx", err: errors.New("analyze resume: status 502")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeApplicantStore()
			uploader := &fakeUploader{url: "https://blob.example/resumes"}
			analyzer := &fakeAnalyzer{err: tt.err}

			svc := newIntakeService(store, uploader, analyzer, &fakeMailer{})

			applicant, err := svc.Submit(context.Background(), validSubmission())
			if err != nil {
				t.Fatalf("Submit() must succeed when analysis fails, got: %v", err)
			}
			if applicant.AIGeneratedScore != nil {
				t.Errorf("ai_generated_score = %v, want nil", applicant.AIGeneratedScore)
			}
			if applicant.AIGeneratedSummary != nil {
				t.Errorf("ai_generated_summary = %v, want nil", applicant.AIGeneratedSummary)
			}
		})
	}
}

func TestSubmitDuplicateRejectedBeforeUpload(t *testing.T) {
	store := newFakeApplicantStore()
	uploader := &fakeUploader{url: "https://blob.example/resumes"}
	analyzer := &fakeAnalyzer{result: &ai.ResumeAnalysis{Score: 50, Summary: "ok"}}

	svc := newIntakeService(store, uploader, analyzer, &fakeMailer{})

	if _, err := svc.Submit(context.Background(), validSubmission()); err != nil {
		t.Fatalf("first Submit() unexpected error: %v", err)
	}

	_, err := svc.Submit(context.Background(), validSubmission())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second Submit() error = %v, want ErrConflict", err)
	}
	if uploader.calls != 1 {
		t.Errorf("uploader calls = %d, want 1: duplicate must not trigger a second upload", uploader.calls)
	}
	if len(store.rows) != 1 {
		t.Errorf("stored rows = %d, want 1", len(store.rows))
	}
}

func TestSubmitConstraintRaceTranslatedToConflict(t *testing.T) {
	// Two concurrent submissions can both pass the pre-check; the insert's
	// unique constraint must then surface as the same ConflictError.
	store := newFakeApplicantStore()
	store.createErr = fmt.Errorf("%w: already applied for this job", domain.ErrConflict)
	uploader := &fakeUploader{url: "https://blob.example/resumes"}

	svc := newIntakeService(store, uploader, &fakeAnalyzer{}, &fakeMailer{})

	_, err := svc.Submit(context.Background(), validSubmission())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Submit() error = %v, want ErrConflict", err)
	}
}

func TestSubmitUploadFailureCreatesNothing(t *testing.T) {
	store := newFakeApplicantStore()
	uploader := &fakeUploader{err: errors.New("blob store unreachable")}
	analyzer := &fakeAnalyzer{}
	mailer := &fakeMailer{}

	svc := newIntakeService(store, uploader, analyzer, mailer)

	_, err := svc.Submit(context.Background(), validSubmission())
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("Submit() error = %v, want ErrUpstream", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("stored rows = %d, want 0: upload failure must abort intake", len(store.rows))
	}
	if analyzer.calls != 0 {
		t.Errorf("analyzer calls = %d, want 0", analyzer.calls)
	}
	if mailer.calls != 0 {
		t.Errorf("mailer calls = %d, want 0", mailer.calls)
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitApplicationInput)
		field  string
	}{
		{name: "missing job id", mutate: func(in *SubmitApplicationInput) { in.JobID = 0 }, field: "job_id"},
		{name: "missing full name", mutate: func(in *SubmitApplicationInput) { in.FullName = "  " }, field: "full_name"},
		{name: "missing email", mutate: func(in *SubmitApplicationInput) { in.Email = "" }, field: "email"},
		{name: "missing resume", mutate: func(in *SubmitApplicationInput) { in.Resume = nil }, field: "resume"},
		{name: "negative experience", mutate: func(in *SubmitApplicationInput) { in.ExperienceYears = -1 }, field: "experience_years"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeApplicantStore()
			uploader := &fakeUploader{url: "https://blob.example/resumes"}
			svc := newIntakeService(store, uploader, &fakeAnalyzer{}, &fakeMailer{})

			in := validSubmission()
			tt.mutate(&in)

			_, err := svc.Submit(context.Background(), in)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Submit() error = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("validation field = %q, want %q", vErr.Field, tt.field)
			}
			if uploader.calls != 0 {
				t.Errorf("uploader calls = %d, want 0: validation is terminal with no side effects", uploader.calls)
			}
			if len(store.rows) != 0 {
				t.Errorf("stored rows = %d, want 0", len(store.rows))
			}
		})
	}
}

func TestSubmitMailFailureSwallowed(t *testing.T) {
	store := newFakeApplicantStore()
	uploader := &fakeUploader{url: "https://blob.example/resumes"}
	analyzer := &fakeAnalyzer{result: &ai.ResumeAnalysis{Score: 60, Summary: "fine"}}
	mailer := &fakeMailer{err: errors.New("mail provider down")}

	svc := newIntakeService(store, uploader, analyzer, mailer)

	if _, err := svc.Submit(context.Background(), validSubmission()); err != nil {
		t.Fatalf("Submit() must succeed when email fails, got: %v", err)
	}
	if mailer.calls != 1 {
		t.Errorf("mailer calls = %d, want 1", mailer.calls)
	}
}

func TestUpdateStatus(t *testing.T) {
	store := newFakeApplicantStore()
	uploader := &fakeUploader{url: "https://blob.example/resumes"}
	svc := newIntakeService(store, uploader, &fakeAnalyzer{err: errors.New("down")}, &fakeMailer{})

	applicant, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}

	// Any transition is allowed, including backwards ones.
	transitions := []string{"Reviewed", "HIRED", "pending", "rejected", "scheduled"}
	for _, status := range transitions {
		updated, err := svc.UpdateStatus(context.Background(), 1, applicant.ApplicantID, status)
		if err != nil {
			t.Fatalf("UpdateStatus(%q) unexpected error: %v", status, err)
		}
		want := domain.ApplicantStatus(strings.ToLower(status))
		if updated.Status != want {
			t.Errorf("UpdateStatus(%q) status = %q, want %q", status, updated.Status, want)
		}
	}

	if _, err := svc.UpdateStatus(context.Background(), 1, applicant.ApplicantID, "archived"); err == nil {
		t.Fatal("UpdateStatus(archived) expected ValidationError, got nil")
	}
}
