package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/core/port"
)

// UserService manages account profiles and deletion.
type UserService struct {
	users   port.UserRepository
	travels port.TravelRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewUserService constructs a UserService instance.
func NewUserService(users port.UserRepository, travels port.TravelRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		users:   users,
		travels: travels,
		logger:  log,
		now:     time.Now,
	}
}

// GetByID returns the user without the password hash.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user id is required")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// GetList returns all users without password hashes.
func (s *UserService) GetList(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.GetList(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Update rewrites the mutable profile fields.
func (s *UserService) Update(ctx context.Context, user domain.User) error {
	if user.ID <= 0 {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(user.FullName) == "" {
		return fmt.Errorf("full name is required")
	}

	return s.users.Update(ctx, user)
}

// Delete removes the account together with its travels.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("user id is required")
	}

	if s.travels != nil {
		if err := s.travels.DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("delete user travels: %w", err)
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.Int64("user_id", id))
	return nil
}
