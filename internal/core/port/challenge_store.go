package port

import (
	"context"
	"time"

	"github.com/proGsa/travel-booking/internal/core/domain"
)

// ChallengeStore persists second-factor challenges keyed by login. Store
// replaces any previous challenge so only the latest issued code is valid.
type ChallengeStore interface {
	Store(ctx context.Context, login, codeDigest string, ttl time.Duration) (*domain.Challenge, error)
	Fetch(ctx context.Context, login string) (*domain.Challenge, error)
	Delete(ctx context.Context, login string) error
}
