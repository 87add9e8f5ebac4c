package mail

import (
	"context"
	"fmt"

	gomail "github.com/go-mail/mail"
	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/core/port"
	"github.com/proGsa/travel-booking/internal/infra/config"
	"github.com/proGsa/travel-booking/internal/infra/logger"
)

// SMTPMailer delivers mail over SMTP using go-mail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

// NewSMTPMailer constructs a mailer from SMTP settings.
func NewSMTPMailer(cfg config.SMTPSettings, log *zap.Logger) *SMTPMailer {
	if log == nil {
		log = zap.NewNop()
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = cfg.SendTimeout

	return &SMTPMailer{
		dialer: dialer,
		from:   cfg.From,
		log:    log,
	}
}

// Send delivers a plain-text message, honoring context cancellation.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		m.log.Debug("mail delivered", zap.String("to", logger.MaskEmail(to)), zap.String("subject", subject))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

var _ port.Mailer = (*SMTPMailer)(nil)

// LogMailer writes messages to the log instead of sending them, used in
// development when no SMTP server is reachable.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer constructs a log-only mailer.
func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{log: log}
}

// Send logs the message with the recipient masked. The body is written out
// in full: it carries the verification code an operator needs to finish a
// sign-in when no SMTP server is reachable.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("mail skipped, log-only mailer configured",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

var _ port.Mailer = (*LogMailer)(nil)
