package services

import (
	"fmt"
	"net/smtp"

	"carelink-backend/internal/config"
)

// NotificationService delivers transactional email over SMTP
type NotificationService struct {
	host    string
	port    string
	user    string
	pass    string
	from    string
	enabled bool
}

// NewNotificationService creates a new notification service. When SMTP is
// not configured the service is disabled and sends become no-ops.
func NewNotificationService(cfg *config.Config) *NotificationService {
	s := &NotificationService{
		host: cfg.SMTP.Host,
		port: cfg.SMTP.Port,
		user: cfg.SMTP.User,
		pass: cfg.SMTP.Pass,
		from: cfg.SMTP.From,
	}
	s.enabled = s.host != "" && s.user != ""
	return s
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// Send delivers a plain-text email
func (s *NotificationService) Send(to, subject, body string) error {
	if !s.enabled {
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, to, subject, body)

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := s.host + ":" + s.port

	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}
