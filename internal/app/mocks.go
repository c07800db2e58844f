package app

import "rent4u_backend/internal/logger"

// MockEmailProvider records intent in the log instead of dialing SMTP.
// Handy when developing against a local database.
type MockEmailProvider struct{}

func (MockEmailProvider) Send(to, subject, _ string) error {
	logger.Info("[mock email] send", "to", to, "subject", subject)
	return nil
}

func (MockEmailProvider) SendWelcome(to, name string) error {
	logger.Info("[mock email] welcome", "to", to, "name", name)
	return nil
}

func (MockEmailProvider) SendBookingConfirmation(to, propertyTitle string, total float64, currency string) error {
	logger.Info("[mock email] booking confirmation", "to", to, "property", propertyTitle, "total", total, "currency", currency)
	return nil
}

func (MockEmailProvider) SendBookingCancelled(to, propertyTitle string) error {
	logger.Info("[mock email] booking cancelled", "to", to, "property", propertyTitle)
	return nil
}

func (MockEmailProvider) SendSubscriptionExpired(to, planName string) error {
	logger.Info("[mock email] subscription expired", "to", to, "plan", planName)
	return nil
}
