package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/velocity-h/peoplepulse/internal/domain"
	"github.com/velocity-h/peoplepulse/internal/service"
)

const maxResumeSize = 5 * 1024 * 1024

// ApplicantHandler handles application endpoints.
type ApplicantHandler struct {
	applicants *service.ApplicantService
}

// NewApplicantHandler creates a new ApplicantHandler.
func NewApplicantHandler(applicants *service.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{applicants: applicants}
}

// Submit accepts a candidate application as multipart form data. Public
// endpoint; no authentication. The response is not sent until the AI
// analysis step resolves or times out.
func (h *ApplicantHandler) Submit(c echo.Context) error {
	in, err := parseSubmission(c)
	if err != nil {
		return err
	}

	applicant, err := h.applicants.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, map[string]any{
		"message":   "Application submitted successfully",
		"applicant": applicant,
	})
}

// Get returns one application with job details for the owning HR.
func (h *ApplicantHandler) Get(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	applicantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	applicant, err := h.applicants.Get(c.Request().Context(), identity.UserID, applicantID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"applicant": applicant})
}

// ListByJob returns all applications for an owned job.
func (h *ApplicantHandler) ListByJob(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	applicants, err := h.applicants.ListByJob(c.Request().Context(), identity.UserID, jobID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"applicants": applicants})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus sets an application's review status.
func (h *ApplicantHandler) UpdateStatus(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	applicantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	applicant, err := h.applicants.UpdateStatus(c.Request().Context(), identity.UserID, applicantID, req.Status)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"applicant": applicant})
}

func parseSubmission(c echo.Context) (service.SubmitApplicationInput, error) {
	var in service.SubmitApplicationInput

	jobID, err := strconv.ParseInt(c.FormValue("job_id"), 10, 64)
	if err != nil || jobID <= 0 {
		return in, &domain.ValidationError{Field: "job_id", Message: "must be a positive integer"}
	}
	in.JobID = jobID
	in.FullName = strings.TrimSpace(c.FormValue("full_name"))
	in.Email = strings.TrimSpace(c.FormValue("email"))
	in.Phone = optionalField(c.FormValue("phone"))
	in.DetailBox = optionalField(c.FormValue("detail_box"))

	if v := c.FormValue("experience_years"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return in, &domain.ValidationError{Field: "experience_years", Message: "must be an integer"}
		}
		in.ExperienceYears = years
	}

	if v := c.FormValue("dob"); v != "" {
		dob, err := time.Parse("2006-01-02", v)
		if err != nil {
			return in, &domain.ValidationError{Field: "dob", Message: "must be a date in YYYY-MM-DD format"}
		}
		in.DOB = &dob
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return in, &domain.ValidationError{Field: "resume", Message: "is required"}
	}
	if file.Size > maxResumeSize {
		return in, &domain.ValidationError{Field: "resume", Message: "file size is too large (max 5MB)"}
	}

	src, err := file.Open()
	if err != nil {
		return in, fmt.Errorf("open resume upload: %w", err)
	}
	// Closed by the request lifecycle once the multipart form is released.

	in.Resume = &service.Resume{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Content:     src,
	}
	return in, nil
}

func optionalField(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
