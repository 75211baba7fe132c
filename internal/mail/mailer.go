// Package mail sends transactional email through Resend. Every send is
// best-effort: callers log failures and move on, the candidate-facing
// response never depends on delivery.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
)

// Confirmation holds the fields of an application confirmation email.
type Confirmation struct {
	ApplicantEmail string
	ApplicantName  string
	JobTitle       string
	JobID          int64
}

// Mailer sends candidate-facing email.
type Mailer struct {
	client      *resend.Client
	from        string
	frontendURL string
}

// NewMailer creates a Mailer. The from address must be a verified sender.
func NewMailer(apiKey, from, frontendURL string) *Mailer {
	return &Mailer{
		client:      resend.NewClient(apiKey),
		from:        from,
		frontendURL: frontendURL,
	}
}

// SendApplicationConfirmation emails the candidate that their application was
// received.
func (m *Mailer) SendApplicationConfirmation(ctx context.Context, c Confirmation) error {
	if c.ApplicantEmail == "" || c.ApplicantName == "" || c.JobTitle == "" {
		return fmt.Errorf("confirmation email: missing required fields")
	}

	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{c.ApplicantEmail},
		Subject: fmt.Sprintf("Application Received - %s", c.JobTitle),
		Html:    m.confirmationHTML(c),
		Text:    m.confirmationText(c),
	})
	if err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

func (m *Mailer) confirmationHTML(c Confirmation) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
    <h1>Application Received</h1>
    <p>Hi <strong>%s</strong>,</p>
    <p>Thank you for applying to the <strong>%s</strong> position at VELOCITY H!</p>
    <p><strong>What happens next?</strong></p>
    <ul>
      <li>Our AI system is analyzing your resume</li>
      <li>Our recruitment team will review your application</li>
      <li>You'll hear from us within 5-7 business days</li>
    </ul>
    <p><a href="%s/jobs">View More Jobs</a></p>
    <p style="color: #666; font-size: 14px;">
      <strong>Application Reference:</strong> JOB-%d<br>
      <strong>Position:</strong> %s
    </p>
    <p style="color: #666; font-size: 14px;">This is an automated confirmation email. Please do not reply.</p>
    <p style="color: #666; font-size: 14px;">&copy; %d VELOCITY H. All rights reserved.</p>
  </body>
</html>`,
		c.ApplicantName, c.JobTitle, m.frontendURL, c.JobID, c.JobTitle, time.Now().Year())
}

func (m *Mailer) confirmationText(c Confirmation) string {
	return fmt.Sprintf(`Hi %s,

Thank you for applying to the %s position at VELOCITY H!

What happens next?
- Our AI system is analyzing your resume
- Our recruitment team will review your application
- You'll hear from us within 5-7 business days

Application Reference: JOB-%d
Position: %s

Best regards,
VELOCITY H Team

This is an automated confirmation email. Please do not reply.
`, c.ApplicantName, c.JobTitle, c.JobID, c.JobTitle)
}
