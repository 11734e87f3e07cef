package email

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/pkg/circuitbreaker"
)

type Service interface {
	SendWelcome(ctx context.Context, email string, name string) error
}

// Dialer is the part of gomail.Dialer used to deliver messages.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	dialer  Dialer
	from    string
	breaker *circuitbreaker.CircuitBreaker
}

// NewService returns an SMTP sender, or a sender that only logs when no SMTP
// host is configured.
func NewService(cfg config.SMTPConfig) Service {
	if cfg.Host == "" {
		return nopService{}
	}
	return NewSMTPService(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

// NewSMTPService sends through dialer. After repeated delivery failures it
// stops dialing for a minute.
func NewSMTPService(dialer Dialer, from string) Service {
	return &smtpService{
		dialer: dialer,
		from:   from,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "smtp",
			MaxFailures: 3,
			Timeout:     time.Minute,
		}),
	}
}

func (s *smtpService) SendWelcome(ctx context.Context, to string, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to the clinic platform")
	m.SetBody("text/plain", welcomeText(name))
	m.AddAlternative("text/html", welcomeHTML(name))

	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.breaker.Execute(func() error {
		return s.dialer.DialAndSend(m)
	})
	if err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func welcomeText(name string) string {
	return fmt.Sprintf("Hi %s,\n\nYour account is ready. Register your clinic to start managing doctors, patients and appointments.\n", name)
}

func welcomeHTML(name string) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Register your clinic to start managing doctors, patients and appointments.</p>", name)
}

type nopService struct{}

func (nopService) SendWelcome(ctx context.Context, to string, name string) error {
	log.Debug().Str("to", to).Msg("SMTP not configured, skipping welcome email")
	return nil
}
