package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/proGsa/travel-booking/internal/infra/security"
)

func newRegistrationService(f *authFixture) *RegistrationService {
	return NewRegistrationService(f.users, f.events, security.DefaultPasswordValidator(), f.service, nil)
}

func TestRegisterSuccess(t *testing.T) {
	f := newAuthFixture(t)
	svc := newRegistrationService(f)

	input := RegisterInput{
		FullName:       "Ivanov Ivan Ivanovich",
		PassportNumber: "4510123456",
		Phone:          "+79991234567",
		Email:          "ivanov@example.com",
		Login:          "ivanov",
		Password:       "Test123!",
	}

	user, token, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.ID == 0 {
		t.Fatalf("expected assigned user id")
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected password hash to be stripped")
	}
	if user.IsAdmin {
		t.Fatalf("expected fresh account without admin flag")
	}

	claims, err := f.service.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("expected usable access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token uid %d does not match user %d", claims.UserID, user.ID)
	}

	// The stored hash verifies the original password.
	stored, err := f.users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	ok, err := security.VerifyPassword("Test123!", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}

	if len(f.events.register) != 1 {
		t.Fatalf("expected one registration event, got %d", len(f.events.register))
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ivanov", "Test123!")
	svc := newRegistrationService(f)

	input := RegisterInput{
		FullName: "Another User",
		Email:    "another@example.com",
		Login:    "ivanov",
		Password: "Test123!",
	}

	_, _, err := svc.Register(context.Background(), input)
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	f := newAuthFixture(t)
	svc := newRegistrationService(f)

	input := RegisterInput{
		FullName: "Ivanov Ivan",
		Email:    "ivanov@example.com",
		Login:    "ivanov",
		Password: "weak",
	}

	_, _, err := svc.Register(context.Background(), input)

	var validationErr *security.PasswordValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected PasswordValidationError, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	f := newAuthFixture(t)
	svc := newRegistrationService(f)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing login", RegisterInput{FullName: "X Y", Email: "x@example.com", Password: "Test123!"}},
		{"missing email", RegisterInput{FullName: "X Y", Login: "xy", Password: "Test123!"}},
		{"malformed email", RegisterInput{FullName: "X Y", Login: "xy", Email: "not-an-email", Password: "Test123!"}},
		{"missing full name", RegisterInput{Login: "xy", Email: "x@example.com", Password: "Test123!"}},
		{"missing password", RegisterInput{FullName: "X Y", Login: "xy", Email: "x@example.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Register(context.Background(), tc.input); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestRegisterThenLoginEndToEnd(t *testing.T) {
	f := newAuthFixture(t)
	svc := newRegistrationService(f)

	input := RegisterInput{
		FullName: "Ivanov Ivan",
		Email:    "ivanov@example.com",
		Login:    "ivanov",
		Password: "Test123!",
	}

	ctx := context.Background()
	if _, _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := f.service.Login(ctx, "ivanov", "Test123!", ""); err != nil {
		t.Fatalf("expected fresh account to log in: %v", err)
	}
	f.waitForMail(t, 1)

	token, user, err := f.service.VerifyTwoFactor(ctx, "ivanov", f.lastCode(t))
	if err != nil {
		t.Fatalf("VerifyTwoFactor returned error: %v", err)
	}
	if token == "" || user == nil {
		t.Fatalf("expected token and user from full flow")
	}
}
