package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/core/port"
	"github.com/proGsa/travel-booking/internal/infra/security"
	"github.com/proGsa/travel-booking/internal/repository"
)

// ErrPasswordReuse indicates the new password matches the current one.
var ErrPasswordReuse = errors.New("new password must differ from the current one")

// PasswordService handles password rotation.
type PasswordService struct {
	users     port.UserRepository
	attempts  port.AttemptStore
	events    port.EventPublisher
	validator *security.PasswordValidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewPasswordService constructs a PasswordService instance.
func NewPasswordService(
	users port.UserRepository,
	attempts port.AttemptStore,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *PasswordService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordService{
		users:     users,
		attempts:  attempts,
		events:    events,
		validator: validator,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *PasswordService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// ChangePassword rotates the password for the named account. The current
// password is not required: rotation is the way out of the password-expired
// login state, so it must work even when the account cannot authenticate.
// When the caller does supply the current password, it is verified.
func (s *PasswordService) ChangePassword(ctx context.Context, login, oldPassword, newPassword string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return fmt.Errorf("login is required")
	}
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if oldPassword != "" {
		ok, err := security.VerifyPassword(oldPassword, user.PasswordHash)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			return ErrInvalidCredentials
		}
	}

	// Reuse is checked against the stored hash so it holds with or
	// without the optional current password.
	same, err := security.VerifyPassword(newPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	if same {
		return ErrPasswordReuse
	}

	if err := s.validator.Validate(newPassword); err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := s.now().UTC()
	if err := s.users.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// A fresh password also clears any failure streak accumulated so far.
	if s.attempts != nil {
		if err := s.attempts.Clear(ctx, login); err != nil {
			s.logger.Error("clear attempts after rotation", zap.Error(err), zap.String("login", login))
		}
	}

	s.logger.Info("password rotated", zap.String("login", login), zap.Int64("user_id", user.ID))

	if s.events != nil {
		event := domain.PasswordChangedEvent{
			EventID:   uuid.NewString(),
			UserID:    user.ID,
			Login:     login,
			ChangedAt: changedAt,
		}
		if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
			s.logger.Error("publish password changed event", zap.Error(err))
		}
	}

	return nil
}
