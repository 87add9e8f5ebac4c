package port

import "context"

// AttemptStore tracks consecutive failed login attempts per account and the
// resulting lockout state. Unknown logins are treated as zero-failure.
type AttemptStore interface {
	// RecordFailure increments the failure counter and returns the new count.
	RecordFailure(ctx context.Context, login string) (int, error)
	// RecordSuccess resets the counter and clears any lockout.
	RecordSuccess(ctx context.Context, login string) error
	// Lock marks the account locked until the lockout TTL elapses or Clear is called.
	Lock(ctx context.Context, login string) error
	// IsLocked reports the current lockout state.
	IsLocked(ctx context.Context, login string) (bool, error)
	// Clear forcibly resets counter and lockout, used by recovery.
	Clear(ctx context.Context, login string) error
}
