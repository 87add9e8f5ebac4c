package port

import (
	"context"

	"github.com/proGsa/travel-booking/internal/core/domain"
)

// EventPublisher publishes security events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error
	PublishAccountRecovered(ctx context.Context, event domain.AccountRecoveredEvent) error
	PublishTwoFactorIssued(ctx context.Context, event domain.TwoFactorIssuedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
}
