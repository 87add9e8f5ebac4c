package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/proGsa/travel-booking/internal/core/port"
)

const (
	defaultAttemptPrefix = "auth:attempts"
	defaultLockPrefix    = "auth:lock"
)

// AttemptRepository tracks consecutive login failures and lockout flags in Redis.
type AttemptRepository struct {
	client        *red.Client
	attemptPrefix string
	lockPrefix    string
	counterTTL    time.Duration
	lockTTL       time.Duration
}

// NewAttemptRepository constructs an attempt repository with the provided TTLs.
// The counter TTL bounds how long a failure streak survives without new
// failures; the lock TTL bounds how long a locked account stays locked.
func NewAttemptRepository(client *red.Client, counterTTL, lockTTL time.Duration) *AttemptRepository {
	if counterTTL <= 0 {
		counterTTL = time.Hour
	}
	if lockTTL <= 0 {
		lockTTL = time.Hour
	}

	return &AttemptRepository{
		client:        client,
		attemptPrefix: defaultAttemptPrefix,
		lockPrefix:    defaultLockPrefix,
		counterTTL:    counterTTL,
		lockTTL:       lockTTL,
	}
}

// RecordFailure increments the failure counter for the login and returns the
// new streak length.
func (r *AttemptRepository) RecordFailure(ctx context.Context, login string) (int, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return 0, errors.New("login is required")
	}

	key := r.attemptKey(login)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.counterTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr attempts: %w", err)
	}

	return int(incr.Val()), nil
}

// RecordSuccess resets the failure counter and clears the lock flag for the
// login. A completed sign-in always leaves the account fully usable.
func (r *AttemptRepository) RecordSuccess(ctx context.Context, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return errors.New("login is required")
	}

	if err := r.client.Del(ctx, r.attemptKey(login), r.lockKey(login)).Err(); err != nil {
		return fmt.Errorf("redis reset attempts: %w", err)
	}

	return nil
}

// Lock marks the login as locked for the configured lock TTL.
func (r *AttemptRepository) Lock(ctx context.Context, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return errors.New("login is required")
	}

	if err := r.client.Set(ctx, r.lockKey(login), "1", r.lockTTL).Err(); err != nil {
		return fmt.Errorf("redis set lock: %w", err)
	}

	return nil
}

// IsLocked reports whether the login currently carries a lock flag.
func (r *AttemptRepository) IsLocked(ctx context.Context, login string) (bool, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return false, errors.New("login is required")
	}

	count, err := r.client.Exists(ctx, r.lockKey(login)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists lock: %w", err)
	}

	return count > 0, nil
}

// Clear removes both the lock flag and the failure counter for the login.
func (r *AttemptRepository) Clear(ctx context.Context, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return errors.New("login is required")
	}

	if err := r.client.Del(ctx, r.lockKey(login), r.attemptKey(login)).Err(); err != nil {
		return fmt.Errorf("redis clear lock: %w", err)
	}

	return nil
}

func (r *AttemptRepository) attemptKey(login string) string {
	return fmt.Sprintf("%s:%s", r.attemptPrefix, login)
}

func (r *AttemptRepository) lockKey(login string) string {
	return fmt.Sprintf("%s:%s", r.lockPrefix, login)
}

var _ port.AttemptStore = (*AttemptRepository)(nil)
