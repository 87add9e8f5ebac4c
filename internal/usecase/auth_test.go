package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var codePattern = regexp.MustCompile(`\d{6}`)

func (f *authFixture) lastCode(t *testing.T) string {
	t.Helper()

	f.mailer.mu.Lock()
	defer f.mailer.mu.Unlock()

	if len(f.mailer.sent) == 0 {
		t.Fatalf("no mail delivered")
	}
	code := codePattern.FindString(f.mailer.sent[len(f.mailer.sent)-1].Body)
	if code == "" {
		t.Fatalf("no code found in mail body: %q", f.mailer.sent[len(f.mailer.sent)-1].Body)
	}
	return code
}

func TestLoginIssuesChallenge(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_2fa", "Test123!")

	result, err := f.service.Login(context.Background(), "techuser_2fa", "Test123!", "203.0.113.1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if result.Delivery != "email" {
		t.Fatalf("unexpected delivery: %s", result.Delivery)
	}
	if result.Contact != "t***@example.com" {
		t.Fatalf("expected masked contact, got %s", result.Contact)
	}
	if result.ExpiresAt.IsZero() {
		t.Fatalf("expected challenge expiry to be set")
	}

	if _, err := f.challenges.Fetch(context.Background(), "techuser_2fa"); err != nil {
		t.Fatalf("expected pending challenge: %v", err)
	}

	f.waitForMail(t, 1)

	if len(f.events.issued) != 1 {
		t.Fatalf("expected one two-factor event, got %d", len(f.events.issued))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_2fa", "Test123!")

	_, err := f.service.Login(context.Background(), "techuser_2fa", "WrongPass1!", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if f.attempts.failures["techuser_2fa"] != 1 {
		t.Fatalf("expected one recorded failure, got %d", f.attempts.failures["techuser_2fa"])
	}
}

func TestLoginUnknownUserCountsFailure(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), "ghost", "Test123!", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if f.attempts.failures["ghost"] != 1 {
		t.Fatalf("expected failure recorded for unknown login")
	}
}

func TestLoginLocksAfterThreshold(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_limit", "Test123!")

	ctx := context.Background()

	// All five wrong-password attempts answer invalid credentials, the
	// fifth silently arming the lock.
	for i := 0; i < 5; i++ {
		if _, err := f.service.Login(ctx, "techuser_limit", "WrongPass1!", "203.0.113.9"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// From the sixth attempt on the account is locked, even with the
	// correct password.
	if _, err := f.service.Login(ctx, "techuser_limit", "WrongPass1!", ""); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked on sixth attempt, got %v", err)
	}
	if _, err := f.service.Login(ctx, "techuser_limit", "Test123!", ""); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked for locked account, got %v", err)
	}

	if len(f.events.locked) != 1 {
		t.Fatalf("expected one lock event, got %d", len(f.events.locked))
	}
	if f.events.locked[0].Failures != 5 {
		t.Fatalf("expected lock event with 5 failures, got %d", f.events.locked[0].Failures)
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_limit", "Test123!")

	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = f.service.Login(ctx, "techuser_limit", "WrongPass1!", "")
	}

	if _, err := f.service.Login(ctx, "techuser_limit", "Test123!", ""); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if f.attempts.failures["techuser_limit"] != 0 {
		t.Fatalf("expected counter reset, got %d", f.attempts.failures["techuser_limit"])
	}

	// The streak starts over after a success.
	if _, err := f.service.Login(ctx, "techuser_limit", "WrongPass1!", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after reset, got %v", err)
	}
	if f.attempts.failures["techuser_limit"] != 1 {
		t.Fatalf("expected streak to restart at 1, got %d", f.attempts.failures["techuser_limit"])
	}
}

func TestLoginPasswordExpired(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "techuser_2fa", "Test123!")

	stale := time.Now().UTC().Add(-91 * 24 * time.Hour)
	if err := f.users.UpdatePassword(context.Background(), user.ID, user.PasswordHash, stale); err != nil {
		t.Fatalf("failed to age password: %v", err)
	}

	_, err := f.service.Login(context.Background(), "techuser_2fa", "Test123!", "")
	if !errors.Is(err, ErrPasswordExpired) {
		t.Fatalf("expected ErrPasswordExpired, got %v", err)
	}

	// Expiry is not a failed attempt.
	if f.attempts.failures["techuser_2fa"] != 0 {
		t.Fatalf("expected no failure recorded, got %d", f.attempts.failures["techuser_2fa"])
	}
}

func TestVerifyTwoFactorSuccess(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "techuser_2fa", "Test123!")

	ctx := context.Background()
	if _, err := f.service.Login(ctx, "techuser_2fa", "Test123!", ""); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	f.waitForMail(t, 1)

	token, verified, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", f.lastCode(t))
	if err != nil {
		t.Fatalf("VerifyTwoFactor returned error: %v", err)
	}
	if verified.ID != user.ID {
		t.Fatalf("unexpected user id: %d", verified.ID)
	}
	if verified.PasswordHash != "" {
		t.Fatalf("expected password hash to be stripped")
	}

	claims, err := f.service.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected uid %d in claims, got %d", user.ID, claims.UserID)
	}
	if claims.Login != "techuser_2fa" {
		t.Fatalf("unexpected login claim: %s", claims.Login)
	}
}

func TestVerifyTwoFactorSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_2fa", "Test123!")

	ctx := context.Background()
	if _, err := f.service.Login(ctx, "techuser_2fa", "Test123!", ""); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	f.waitForMail(t, 1)
	code := f.lastCode(t)

	if _, _, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", code); err != nil {
		t.Fatalf("VerifyTwoFactor returned error: %v", err)
	}

	// The consumed code is gone.
	if _, _, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode on replay, got %v", err)
	}
}

func TestVerifyTwoFactorWrongCodeKeepsChallenge(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_2fa", "Test123!")

	ctx := context.Background()
	if _, err := f.service.Login(ctx, "techuser_2fa", "Test123!", ""); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	f.waitForMail(t, 1)

	if _, _, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", "000000"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}

	// The challenge survives a mismatch so the right code still works.
	if _, _, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", f.lastCode(t)); err != nil {
		t.Fatalf("expected retry with correct code to succeed: %v", err)
	}
}

func TestVerifyTwoFactorExpired(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_2fa", "Test123!")

	ctx := context.Background()
	if _, err := f.service.Login(ctx, "techuser_2fa", "Test123!", ""); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	f.waitForMail(t, 1)
	code := f.lastCode(t)

	f.service.WithClock(func() time.Time { return time.Now().Add(11 * time.Minute) })

	if _, _, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", code); !errors.Is(err, ErrChallengeExpired) {
		t.Fatalf("expected ErrChallengeExpired, got %v", err)
	}

	// The expired challenge was consumed.
	if _, _, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode after expiry cleanup, got %v", err)
	}
}

func TestVerifyTwoFactorNoChallenge(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_2fa", "Test123!")

	if _, _, err := f.service.VerifyTwoFactor(context.Background(), "techuser_2fa", "123456"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode without pending challenge, got %v", err)
	}
}

func TestLoginReplacesPendingChallenge(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_2fa", "Test123!")

	ctx := context.Background()
	if _, err := f.service.Login(ctx, "techuser_2fa", "Test123!", ""); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	f.waitForMail(t, 1)
	firstCode := f.lastCode(t)

	if _, err := f.service.Login(ctx, "techuser_2fa", "Test123!", ""); err != nil {
		t.Fatalf("second Login returned error: %v", err)
	}
	f.waitForMail(t, 2)
	secondCode := f.lastCode(t)

	if firstCode == secondCode {
		t.Skip("codes collided, cannot distinguish challenges")
	}

	if _, _, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", firstCode); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected stale code to be rejected, got %v", err)
	}
	if _, _, err := f.service.VerifyTwoFactor(ctx, "techuser_2fa", secondCode); err != nil {
		t.Fatalf("expected latest code to succeed: %v", err)
	}
}

func TestRecoverClearsLockout(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_block", "Test123!")

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = f.service.Login(ctx, "techuser_block", "WrongPass1!", "")
	}

	if _, err := f.service.Login(ctx, "techuser_block", "Test123!", ""); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected account to be locked, got %v", err)
	}

	if err := f.service.Recover(ctx, "techuser_block", "203.0.113.3"); err != nil {
		t.Fatalf("Recover returned error: %v", err)
	}

	if _, err := f.service.Login(ctx, "techuser_block", "Test123!", ""); err != nil {
		t.Fatalf("expected login after recovery to succeed: %v", err)
	}

	if len(f.events.recovered) != 1 {
		t.Fatalf("expected one recovery event, got %d", len(f.events.recovered))
	}
}

func TestRecoverUnlockedAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "techuser_2fa", "Test123!")

	if err := f.service.Recover(context.Background(), "techuser_2fa", ""); err != nil {
		t.Fatalf("Recover on unlocked account returned error: %v", err)
	}
}

func TestParseAccessTokenRejectsTampered(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "techuser_2fa", "Test123!")

	token, err := f.service.IssueToken(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	if _, err := f.service.ParseAccessToken(token + "x"); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("expected ErrInvalidAccessToken, got %v", err)
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "techuser_2fa", "Test123!")

	f.service.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	token, err := f.service.IssueToken(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	f.service.WithClock(time.Now)

	if _, err := f.service.ParseAccessToken(token); !errors.Is(err, ErrExpiredAccessToken) {
		t.Fatalf("expected ErrExpiredAccessToken, got %v", err)
	}
}

func TestIssueTokenCarriesRegisteredClaims(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "techuser_2fa", "Test123!")

	token, err := f.service.IssueToken(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	claims, err := f.service.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}

	if claims.Issuer != "travel-booking" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry")
	}

	var _ jwt.Claims = claims
}

func TestAuthorize(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "member", "Str0ng!Passw0rd")
	other := f.seedUser(t, "neighbor", "Str0ng!Passw0rd")
	adminUser := f.seedUser(t, "admin", "Str0ng!Passw0rd")

	member := &AccessTokenClaims{UserID: owner.ID, Login: owner.Login}
	admin := &AccessTokenClaims{UserID: adminUser.ID, Login: adminUser.Login, IsAdmin: true}

	if err := f.service.Authorize(ctx, member, owner.ID); err != nil {
		t.Fatalf("expected self access to be allowed: %v", err)
	}
	if err := f.service.Authorize(ctx, member, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.service.Authorize(ctx, admin, other.ID); err != nil {
		t.Fatalf("expected admin access to be allowed: %v", err)
	}
	if err := f.service.Authorize(ctx, nil, other.ID); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("expected ErrInvalidAccessToken for nil claims, got %v", err)
	}
}

func TestAuthorizeRejectsDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := f.seedUser(t, "departed", "Str0ng!Passw0rd")
	claims := &AccessTokenClaims{UserID: user.ID, Login: user.Login}

	if err := f.users.Delete(ctx, user.ID); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	if err := f.service.Authorize(ctx, claims, user.ID); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("expected ErrInvalidAccessToken for deleted account, got %v", err)
	}
}
