// Package ai wraps the external FastAPI scoring service. Both operations are
// best-effort from the caller's point of view: every call carries a bounded
// timeout, and any failure here must never fail job creation or application
// intake.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// JobSummaryRequest is the payload for POST /api/generate-job-summary.
type JobSummaryRequest struct {
	JobTitle                string   `json:"job_title"`
	JobDescription          string   `json:"job_description"`
	RequiredExperienceYears int      `json:"required_experience_years"`
	Tags                    []string `json:"tags"`
}

// ResumeAnalysisRequest is the payload for POST /api/analyze-resume.
type ResumeAnalysisRequest struct {
	ResumeURL      string `json:"resume_url"`
	JobDescription string `json:"job_description"`
	CoverLetter    string `json:"cover_letter"`
}

// ResumeAnalysis is the scoring service's verdict on one resume.
type ResumeAnalysis struct {
	Score           float64  `json:"score"`
	Summary         string   `json:"summary"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	JDMatch         string   `json:"jd_match,omitempty"`
}

// Client talks to the FastAPI scoring service.
type Client struct {
	http    *resty.Client
	timeout time.Duration
}

// NewClient creates a Client with a per-call timeout enforced on every request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
		timeout: timeout,
	}
}

// GenerateJobSummary returns a short AI summary of a job posting.
func (c *Client) GenerateJobSummary(ctx context.Context, req JobSummaryRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body struct {
		Summary string `json:"summary"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		Post("/api/generate-job-summary")
	if err != nil {
		return "", fmt.Errorf("generate job summary: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("generate job summary: status %d", resp.StatusCode())
	}
	if body.Summary == "" {
		return "", fmt.Errorf("generate job summary: empty summary in response")
	}
	return body.Summary, nil
}

// AnalyzeResume scores one resume against a job description.
func (c *Client) AnalyzeResume(ctx context.Context, req ResumeAnalysisRequest) (*ResumeAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body ResumeAnalysis
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		Post("/api/analyze-resume")
	if err != nil {
		return nil, fmt.Errorf("analyze resume: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("analyze resume: status %d", resp.StatusCode())
	}
	if body.Score < 0 || body.Score > 100 {
		return nil, fmt.Errorf("analyze resume: score %v out of range", body.Score)
	}
	return &body, nil
}

// Healthy reports whether the scoring service answers its health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.R().SetContext(ctx).Get("/health")
	return err == nil && resp.IsSuccess()
}
