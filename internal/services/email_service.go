package services

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendPasswordChanged(email, name string, at time.Time) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendPasswordChanged(email, name string, at time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your password was changed")

	greeting := "Hello"
	if name != "" {
		greeting = "Hello, " + html.EscapeString(name)
	}
	body := fmt.Sprintf(`
		<h3>%s</h3>
		<p>The password for your CRM account was changed on %s (UTC).</p>
		<p>All of your other sessions stay signed in. If this was not you, sign out every other session
		from Settings and contact your administrator.</p>
	`, greeting, at.UTC().Format("2006-01-02 15:04"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password change email: %w", err)
	}

	return nil
}
