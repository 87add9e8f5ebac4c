package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, subject string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("subject", subject),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs security.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"login":         event.Login,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("security.user.registered", event.Login, event.RegisteredAt, payload)
	return nil
}

// PublishAccountLocked logs security.account.locked events.
func (p *StubPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	payload := map[string]any{
		"login":     event.Login,
		"failures":  event.Failures,
		"locked_at": event.LockedAt,
	}
	p.logEvent("security.account.locked", event.Login, event.LockedAt, payload)
	return nil
}

// PublishAccountRecovered logs security.account.recovered events.
func (p *StubPublisher) PublishAccountRecovered(_ context.Context, event domain.AccountRecoveredEvent) error {
	payload := map[string]any{
		"login":        event.Login,
		"recovered_at": event.RecoveredAt,
	}
	p.logEvent("security.account.recovered", event.Login, event.RecoveredAt, payload)
	return nil
}

// PublishTwoFactorIssued logs security.twofactor.issued events.
func (p *StubPublisher) PublishTwoFactorIssued(_ context.Context, event domain.TwoFactorIssuedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"login":      event.Login,
		"delivery":   event.Delivery,
		"issued_at":  event.IssuedAt,
		"expires_at": event.ExpiresAt,
	}
	p.logEvent("security.twofactor.issued", event.Login, event.IssuedAt, payload)
	return nil
}

// PublishPasswordChanged logs security.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"login":      event.Login,
		"changed_at": event.ChangedAt,
	}
	p.logEvent("security.password.changed", event.Login, event.ChangedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
