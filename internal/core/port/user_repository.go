package port

import (
	"context"
	"time"

	"github.com/proGsa/travel-booking/internal/core/domain"
)

// UserRepository exposes persistence behavior for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetList(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}
