package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/config"
)

// EmailSender delivers codes over SMTP.
type EmailSender struct {
	cfg config.SMTPConfig
}

func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Channel() models.Channel { return models.ChannelEmail }

func (s *EmailSender) Send(_ context.Context, destination, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", destination)
	m.SetHeader("Subject", "Account Deletion Verification Code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your account deletion verification code is: %s\n\n"+
			"This code will expire in 10 minutes.\n\n"+
			"If you did not request account deletion, please ignore this email and your account will remain unchanged.",
		code,
	))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
