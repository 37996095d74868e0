package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer sends registration status notifications over plain SMTP.
type Mailer struct {
	addr     string
	host     string
	from     string
	password string
	log      *zerolog.Logger
}

func New(addr, host, from, password string, log *zerolog.Logger) *Mailer {
	return &Mailer{addr: addr, host: host, from: from, password: password, log: log}
}

// Enabled reports whether SMTP credentials were configured.
func (m *Mailer) Enabled() bool {
	return m.from != "" && m.password != ""
}

// SendStatusEmail notifies the registrant about the current state of their
// sign-up for the named event.
func (m *Mailer) SendStatusEmail(eventTitle, status, recipient string) error {
	var subject, body string
	switch status {
	case "pending":
		subject = "Registration received"
		body = fmt.Sprintf("Hi!\n\nWe received your registration for \"%s\". The organizers will review it shortly.", eventTitle)
	case "accepted":
		subject = "Registration accepted"
		body = fmt.Sprintf("Hi!\n\nYour registration for \"%s\" has been accepted. See you there!", eventTitle)
	case "rejected":
		subject = "Registration update"
		body = fmt.Sprintf("Hi!\n\nUnfortunately your registration for \"%s\" could not be accommodated this time.", eventTitle)
	default:
		subject = "Registration update"
		body = fmt.Sprintf("Hi!\n\nYour registration for \"%s\" is now marked as %s.", eventTitle, status)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, recipient, subject, body,
	)

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := smtp.SendMail(m.addr, auth, m.from, []string{recipient}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", recipient, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("email sent to %s (status: %s)", recipient, status)
	return nil
}
