package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/core/port"
	"github.com/proGsa/travel-booking/internal/repository"
)

const (
	defaultChallengePrefix = "auth:challenge"

	fieldDigest    = "digest"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

// ChallengeRepository persists pending second-factor challenges in Redis.
// Only the code digest is stored, never the plaintext code.
type ChallengeRepository struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

// NewChallengeRepository constructs a challenge repository with the provided Redis client.
func NewChallengeRepository(client *red.Client) *ChallengeRepository {
	return &ChallengeRepository{
		client: client,
		prefix: defaultChallengePrefix,
		now:    time.Now,
	}
}

// Store persists a challenge digest with the supplied TTL, replacing any
// pending challenge for the same login.
func (r *ChallengeRepository) Store(ctx context.Context, login, codeDigest string, ttl time.Duration) (*domain.Challenge, error) {
	login = strings.TrimSpace(login)
	codeDigest = strings.TrimSpace(codeDigest)

	switch {
	case login == "":
		return nil, errors.New("login is required")
	case codeDigest == "":
		return nil, errors.New("code digest is required")
	case ttl <= 0:
		return nil, errors.New("ttl must be positive")
	}

	now := r.now().UTC()
	expiresAt := now.Add(ttl)

	key := r.key(login)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		fieldDigest:    codeDigest,
		fieldCreatedAt: strconv.FormatInt(now.Unix(), 10),
		fieldExpiresAt: strconv.FormatInt(expiresAt.Unix(), 10),
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis store challenge: %w", err)
	}

	return &domain.Challenge{
		Login:      login,
		CodeDigest: codeDigest,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
	}, nil
}

// Fetch retrieves the pending challenge for the login.
func (r *ChallengeRepository) Fetch(ctx context.Context, login string) (*domain.Challenge, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, errors.New("login is required")
	}

	values, err := r.client.HGetAll(ctx, r.key(login)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall challenge: %w", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrNotFound
	}

	digest := strings.TrimSpace(values[fieldDigest])
	if digest == "" {
		return nil, repository.ErrNotFound
	}

	createdAt, err := parseUnix(values[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	expiresAt, err := parseUnix(values[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	return &domain.Challenge{
		Login:      login,
		CodeDigest: digest,
		CreatedAt:  createdAt,
		ExpiresAt:  expiresAt,
	}, nil
}

// Delete removes the pending challenge, enforcing single-use semantics.
func (r *ChallengeRepository) Delete(ctx context.Context, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return errors.New("login is required")
	}

	deleted, err := r.client.Del(ctx, r.key(login)).Result()
	if err != nil {
		return fmt.Errorf("redis delete challenge: %w", err)
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// WithClock overrides the internal clock, used in tests.
func (r *ChallengeRepository) WithClock(clock func() time.Time) {
	if clock != nil {
		r.now = clock
	}
}

func (r *ChallengeRepository) key(login string) string {
	return fmt.Sprintf("%s:%s", r.prefix, login)
}

func parseUnix(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.New("timestamp is empty")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0).UTC(), nil
}

var _ port.ChallengeStore = (*ChallengeRepository)(nil)
