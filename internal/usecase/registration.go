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
	"github.com/proGsa/travel-booking/internal/infra/logger"
	"github.com/proGsa/travel-booking/internal/infra/security"
	"github.com/proGsa/travel-booking/internal/repository"
)

// ErrDuplicateAccount indicates another account already owns a unique field.
var (
	ErrDuplicateAccount = errors.New("account already exists")
	ErrMissingField     = errors.New("missing required field")
)

// RegisterInput carries the profile fields collected at signup.
type RegisterInput struct {
	FullName       string
	PassportNumber string
	Phone          string
	Email          string
	Login          string
	Password       string
}

// RegistrationService creates accounts and hands out the initial session token.
type RegistrationService struct {
	users     port.UserRepository
	events    port.EventPublisher
	validator *security.PasswordValidator
	auth      *AuthService
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	users port.UserRepository,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	auth *AuthService,
	log *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		users:     users,
		events:    events,
		validator: validator,
		auth:      auth,
		logger:    log,
		now:       time.Now,
	}
}

// Register validates the input, stores the account, and issues an access
// token so the fresh account is signed in immediately.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.PassportNumber = strings.TrimSpace(input.PassportNumber)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.Login = strings.TrimSpace(input.Login)

	switch {
	case input.FullName == "":
		return nil, "", fmt.Errorf("%w: full name", ErrMissingField)
	case input.Login == "":
		return nil, "", fmt.Errorf("%w: login", ErrMissingField)
	case input.Email == "" || !strings.Contains(input.Email, "@"):
		return nil, "", fmt.Errorf("%w: valid email", ErrMissingField)
	case input.Password == "":
		return nil, "", fmt.Errorf("%w: password", ErrMissingField)
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return nil, "", err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		FullName:          input.FullName,
		Login:             input.Login,
		Email:             input.Email,
		Phone:             input.Phone,
		PassportNumber:    input.PassportNumber,
		PasswordHash:      hash,
		PasswordChangedAt: now,
		CreatedAt:         now,
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrDuplicateAccount
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	s.logger.Info("account registered",
		zap.Int64("user_id", id),
		zap.String("login", user.Login),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       id,
			Login:        user.Login,
			Email:        user.Email,
			RegisteredAt: now,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Error("publish user registered event", zap.Error(err))
		}
	}

	var token string
	if s.auth != nil {
		token, err = s.auth.IssueToken(ctx, user)
		if err != nil {
			return nil, "", err
		}
	}

	user.PasswordHash = ""
	return &user, token, nil
}
