package domain

import "time"

// UserRegisteredEvent is emitted when a new account is created.
type UserRegisteredEvent struct {
	EventID      string
	UserID       int64
	Login        string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// AccountLockedEvent is emitted when an account crosses the failure threshold.
type AccountLockedEvent struct {
	EventID  string
	Login    string
	Failures int
	LockedAt time.Time
	IP       string
}

// AccountRecoveredEvent is emitted when a recovery request clears the lockout state.
type AccountRecoveredEvent struct {
	EventID     string
	Login       string
	RecoveredAt time.Time
	IP          string
}

// TwoFactorIssuedEvent is emitted when a second-factor code is dispatched.
type TwoFactorIssuedEvent struct {
	EventID   string
	UserID    int64
	Login     string
	Delivery  string
	Contact   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// PasswordChangedEvent is emitted after a successful password rotation.
type PasswordChangedEvent struct {
	EventID   string
	UserID    int64
	Login     string
	ChangedAt time.Time
	Metadata  map[string]any
}
