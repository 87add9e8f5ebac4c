package domain

import "time"

// User mirrors the persisted representation in the users table.
type User struct {
	ID                int64
	FullName          string
	Login             string
	Email             string
	Phone             string
	PassportNumber    string
	PasswordHash      string
	PasswordChangedAt time.Time
	IsAdmin           bool
	CreatedAt         time.Time
}

// Challenge is an issued second-factor code awaiting verification.
// Only the most recently issued challenge for a login is valid.
type Challenge struct {
	Login      string
	CodeDigest string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// LoginAttempts is a snapshot of the failure counter for a login.
type LoginAttempts struct {
	Login    string
	Failures int
	Locked   bool
}
