package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/velocity-h/peoplepulse/internal/domain"
	"github.com/velocity-h/peoplepulse/internal/service"
)

// ScheduleHandler handles interview scheduling endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

type createScheduleRequest struct {
	ApplicantID   int64     `json:"applicant_id" validate:"required,gt=0"`
	JobID         int64     `json:"job_id" validate:"required,gt=0"`
	InterviewTime time.Time `json:"interview_time" validate:"required"`
	Notes         *string   `json:"notes"`
}

// Create books an interview slot. The applicant is marked "scheduled" in the
// same storage transaction.
func (h *ScheduleHandler) Create(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req createScheduleRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	schedule, err := h.schedules.Create(c.Request().Context(), identity.UserID, service.CreateScheduleInput{
		ApplicantID:   req.ApplicantID,
		JobID:         req.JobID,
		InterviewTime: req.InterviewTime,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, map[string]any{"schedule": schedule})
}

type updateScheduleRequest struct {
	InterviewTime time.Time `json:"interview_time" validate:"required"`
	Notes         *string   `json:"notes"`
}

// Update moves an owned schedule's time and notes. Past times are accepted.
func (h *ScheduleHandler) Update(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	schedulingID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	schedule, err := h.schedules.Update(c.Request().Context(), identity.UserID, schedulingID, req.InterviewTime, req.Notes)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"schedule": schedule})
}

// Delete removes an owned schedule; the applicant reverts to "pending" in
// the same storage transaction.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	schedulingID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.schedules.Delete(c.Request().Context(), identity.UserID, schedulingID); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"message": "schedule deleted"})
}

// List returns all of the HR's schedules with derived display statuses.
func (h *ScheduleHandler) List(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	schedules, err := h.schedules.List(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]any{"schedules": schedules})
}
