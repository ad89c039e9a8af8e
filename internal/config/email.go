package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/resend/resend-go/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	EmailProviderResend = "resend"
	EmailProviderSMTP   = "smtp"
)

type EmailConfig struct {
	Provider     string
	From         string
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

func NewEmailConfig() (*EmailConfig, error) {
	cfg := &EmailConfig{
		Provider:     os.Getenv("MAIL_PROVIDER"),
		From:         os.Getenv("FROM_EMAIL"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envOrDefaultInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}
	switch cfg.Provider {
	case "":
		return cfg, nil
	case EmailProviderResend:
		if cfg.ResendAPIKey == "" || cfg.From == "" {
			return nil, errors.New("MAIL_PROVIDER=resend requires RESEND_API_KEY and FROM_EMAIL")
		}
	case EmailProviderSMTP:
		if cfg.SMTPHost == "" || cfg.From == "" {
			return nil, errors.New("MAIL_PROVIDER=smtp requires SMTP_HOST and FROM_EMAIL")
		}
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.Provider)
	}
	return cfg, nil
}

type emailSender interface {
	send(ctx context.Context, from, to, subject, html string) error
}

type resendSender struct {
	client *resend.Client
}

func (s *resendSender) send(ctx context.Context, from, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

type smtpSender struct {
	dialer *gomail.Dialer
}

// send gives up when ctx ends; gomail cannot abort a dial already in progress,
// so that attempt finishes in the background.
func (s *smtpSender) send(ctx context.Context, from, to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: %w", ctx.Err())
	}
}

// EmailService delivers notification emails through the configured provider.
// With no provider configured every send is logged and dropped.
type EmailService struct {
	config *EmailConfig
	sender emailSender
	logger *zap.Logger
}

func NewEmailService(lc fx.Lifecycle, config *EmailConfig, logger *zap.Logger) *EmailService {
	service := &EmailService{config: config, logger: logger.Named("email")}
	switch config.Provider {
	case EmailProviderResend:
		service.sender = &resendSender{client: resend.NewClient(config.ResendAPIKey)}
	case EmailProviderSMTP:
		service.sender = &smtpSender{dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)}
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if service.Enabled() {
				service.logger.Info("email service initialized", zap.String("provider", config.Provider))
			} else {
				service.logger.Info("email service disabled, MAIL_PROVIDER not set")
			}
			return nil
		},
	})
	return service
}

func (e *EmailService) Enabled() bool {
	return e.sender != nil
}

func (e *EmailService) SendEmail(ctx context.Context, to, subject, body string) error {
	if !e.Enabled() {
		e.logger.Debug("email dropped", zap.String("to", to), zap.String("subject", subject))
		return nil
	}
	if err := e.sender.send(ctx, e.config.From, to, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	e.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
