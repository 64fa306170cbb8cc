// Package notify delivers transactional email to patients.  Delivery is
// always best-effort: booking and status workflows never fail because an
// email could not be sent.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender is the narrow interface the notification consumer depends
// on.  Implementations can be swapped (SendGrid, SMTP, stub) without
// changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents a single outbound email.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// SendGridSender sends email via the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridSender creates a SendGrid-backed sender.  It returns nil
// when no API key is configured so callers can fall back to the stub.
func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	if apiKey == "" {
		return nil
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send delivers one email through SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	m := mail.NewSingleEmail(from, msg.Subject, to, msg.Subject, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// StubEmailSender logs instead of sending.  Used in development and in
// tests, and whenever SENDGRID_API_KEY is absent.
type StubEmailSender struct{}

// Send logs the email but does not deliver it.
func (StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	log.Printf("stub email sender: would send %q to %s", msg.Subject, msg.To)
	return nil
}

var _ EmailSender = (*SendGridSender)(nil)
var _ EmailSender = StubEmailSender{}
