package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinio/clinio-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, to, name string, apt *model.Appointment) error
	SendCancellation(ctx context.Context, to, name string, apt *model.Appointment) error
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to, name string, apt *model.Appointment) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment on %s (%d minutes) is confirmed.\n",
		name, apt.StartTime.Format("2006-01-02 15:04 MST"), apt.DurationMinutes,
	)
	return s.send(to, subject, body)
}

func (s *smtpService) SendCancellation(ctx context.Context, to, name string, apt *model.Appointment) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment on %s has been cancelled.\n",
		name, apt.StartTime.Format("2006-01-02 15:04 MST"),
	)
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

type noopService struct{}

// NewNoop returns a mailer that drops everything. Used when SMTP is not
// configured.
func NewNoop() Service {
	return noopService{}
}

func (noopService) SendBookingConfirmation(context.Context, string, string, *model.Appointment) error {
	return nil
}

func (noopService) SendCancellation(context.Context, string, string, *model.Appointment) error {
	return nil
}
