package notifier

import (
	"context"
	"fmt"

	"github.com/fieldserve/appointments/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends mail through the configured SMTP account (a Gmail address
// plus app password in the reference deployment).
type Mailer struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewMailer creates a new SMTP mailer
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Address, cfg.AppPassword),
	}
}

// Configured reports whether the mailer has credentials to send with.
func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

// Send delivers one HTML email. gomail's dialer has no context support, so
// the context is only checked before dialing.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !m.Configured() {
		return fmt.Errorf("mailer is not configured (missing address or app password)")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.Address, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
