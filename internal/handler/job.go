package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/velocity-h/peoplepulse/internal/domain"
	"github.com/velocity-h/peoplepulse/internal/service"
)

// JobHandler handles job posting endpoints.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	JobTitle                string     `json:"job_title" validate:"required"`
	JobDescription          string     `json:"job_description" validate:"required"`
	RequiredExperienceYears int        `json:"required_experience_years" validate:"gte=0"`
	Tags                    []string   `json:"tags"`
	Location                *string    `json:"location"`
	SalaryRange             *string    `json:"salary_range"`
	ExpiryDate              *time.Time `json:"expiry_date"`
}

func (r jobRequest) toInput() service.CreateJobInput {
	return service.CreateJobInput{
		JobTitle:                r.JobTitle,
		JobDescription:          r.JobDescription,
		RequiredExperienceYears: r.RequiredExperienceYears,
		Tags:                    r.Tags,
		Location:                r.Location,
		SalaryRange:             r.SalaryRange,
		ExpiryDate:              r.ExpiryDate,
	}
}

// Create posts a new job. The AI summary is generated synchronously but its
// failure never fails the request.
func (h *JobHandler) Create(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.Request().Context(), identity.UserID, req.toInput())
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, map[string]any{"job": job})
}

// List returns the authenticated HR's jobs, newest first.
func (h *JobHandler) List(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	jobs, err := h.jobs.ListOwned(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"jobs": jobs})
}

// ListPublic returns active, unexpired jobs for the public board.
func (h *JobHandler) ListPublic(c echo.Context) error {
	jobs, err := h.jobs.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"jobs": jobs})
}

// Update full-replaces the editable fields of an owned job.
func (h *JobHandler) Update(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	job, err := h.jobs.Update(c.Request().Context(), identity.UserID, jobID, req.toInput())
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"job": job})
}

// Delete removes an owned job and everything that references it.
func (h *JobHandler) Delete(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(c.Request().Context(), identity.UserID, jobID); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"message": "job deleted"})
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// SetActive toggles the is_active flag on an owned job.
func (h *JobHandler) SetActive(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.jobs.SetActive(c.Request().Context(), identity.UserID, jobID, *req.IsActive); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"job_id": jobID, "is_active": *req.IsActive})
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}
