package email

import (
	"fmt"

	"rent4u_backend/internal/config"
	"rent4u_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// Provider sends transactional mail. Implementations must be safe for
// concurrent use.
type Provider interface {
	Send(to, subject, htmlBody string) error
	SendWelcome(to, name string) error
	SendBookingConfirmation(to, propertyTitle string, total float64, currency string) error
	SendBookingCancelled(to, propertyTitle string) error
	SendSubscriptionExpired(to, planName string) error
}

type smtpProvider struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPProvider() Provider {
	cfg := config.GetConfig()
	dialer := gomail.NewDialer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUsername,
		cfg.Email.SMTPPassword,
	)
	from := fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromEmail)
	return &smtpProvider{dialer: dialer, from: from}
}

func (p *smtpProvider) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := p.dialer.DialAndSend(m); err != nil {
		logger.WithError(err).Error("failed to send email", "to", to, "subject", subject)
		return err
	}
	return nil
}

func (p *smtpProvider) SendWelcome(to, name string) error {
	body := fmt.Sprintf(
		"<h2>Welcome, %s!</h2><p>Your account is ready. Browse listings or publish your first property today.</p>",
		name,
	)
	return p.Send(to, "Welcome to Rent4U", body)
}

func (p *smtpProvider) SendBookingConfirmation(to, propertyTitle string, total float64, currency string) error {
	body := fmt.Sprintf(
		"<h2>Booking confirmed</h2><p>Your booking for <b>%s</b> is confirmed.</p><p>Total: %.2f %s</p>",
		propertyTitle, total, currency,
	)
	return p.Send(to, "Booking confirmed", body)
}

func (p *smtpProvider) SendBookingCancelled(to, propertyTitle string) error {
	body := fmt.Sprintf(
		"<h2>Booking cancelled</h2><p>Your booking for <b>%s</b> has been cancelled.</p>",
		propertyTitle,
	)
	return p.Send(to, "Booking cancelled", body)
}

func (p *smtpProvider) SendSubscriptionExpired(to, planName string) error {
	body := fmt.Sprintf(
		"<h2>Subscription expired</h2><p>Your <b>%s</b> plan has expired. Renew to keep your listings visible.</p>",
		planName,
	)
	return p.Send(to, "Your subscription has expired", body)
}

// NoopProvider drops all mail. Used in tests and local development
// without an SMTP server.
type NoopProvider struct{}

func (NoopProvider) Send(_, _, _ string) error { return nil }

func (NoopProvider) SendWelcome(_, _ string) error { return nil }

func (NoopProvider) SendBookingConfirmation(_, _ string, _ float64, _ string) error { return nil }

func (NoopProvider) SendBookingCancelled(_, _ string) error { return nil }

func (NoopProvider) SendSubscriptionExpired(_, _ string) error { return nil }
