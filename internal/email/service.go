package email

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/pedready/pedready-api/config"
	"github.com/pedready/pedready-api/internal/model"
)

type Service interface {
	SendCertificationExpiryNotice(ctx context.Context, to string, name string, cert *model.Certification, courseTitle string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendCertificationExpiryNotice(ctx context.Context, to string, name string, cert *model.Certification, courseTitle string) error {
	subject := fmt.Sprintf("Your %s certification expires on %s", courseTitle, cert.ExpiresAt.Format("2 Jan 2006"))
	body := fmt.Sprintf(
		"Hello %s,\n\nYour %s certification (code %s) expires on %s. "+
			"Please re-enroll before the expiry date to keep your certification active.\n",
		name, courseTitle, cert.VerificationCode, cert.ExpiresAt.Format("2 Jan 2006"),
	)
	return s.send(ctx, to, subject, body)
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	return s.send(ctx, to, subject, content)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(30 * time.Second):
		return fmt.Errorf("email send timed out")
	}
}
