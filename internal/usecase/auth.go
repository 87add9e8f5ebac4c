package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/core/port"
	"github.com/proGsa/travel-booking/internal/infra/config"
	"github.com/proGsa/travel-booking/internal/infra/logger"
	"github.com/proGsa/travel-booking/internal/infra/security"
	"github.com/proGsa/travel-booking/internal/infra/telemetry"
	"github.com/proGsa/travel-booking/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided login or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked indicates the account is locked after repeated failures.
	ErrAccountLocked = errors.New("account is locked")
	// ErrPasswordExpired indicates the password aged out and must be rotated.
	ErrPasswordExpired = errors.New("password expired")
	// ErrInvalidCode indicates the second-factor code does not match the pending challenge.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrChallengeExpired indicates the second-factor code aged out before verification.
	ErrChallengeExpired = errors.New("verification code expired")
	// ErrInvalidAccessToken indicates the provided access token is malformed or signature validation failed.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the provided access token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
	// ErrForbidden indicates the caller lacks the privileges for the operation.
	ErrForbidden = errors.New("operation not permitted")
)

const twoFactorSubject = "Your verification code"

// AuthService coordinates the two-step login flow, account lockout, and
// access token issuance.
type AuthService struct {
	cfg            *config.AppConfig
	users          port.UserRepository
	attempts       port.AttemptStore
	challenges     port.ChallengeStore
	mailer         port.Mailer
	events         port.EventPublisher
	tokenGenerator *security.TokenGenerator
	keyProvider    security.KeyProvider
	logger         *zap.Logger
	metrics        *telemetry.Metrics
	now            func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	users port.UserRepository,
	attempts port.AttemptStore,
	challenges port.ChallengeStore,
	mailer port.Mailer,
	events port.EventPublisher,
	tokenGenerator *security.TokenGenerator,
	keyProvider security.KeyProvider,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		cfg:            cfg,
		users:          users,
		attempts:       attempts,
		challenges:     challenges,
		mailer:         mailer,
		events:         events,
		tokenGenerator: tokenGenerator,
		keyProvider:    keyProvider,
		logger:         log,
		now:            time.Now,
	}
}

// WithMetrics attaches login outcome counters. A nil receiver on the
// metrics side is tolerated, so wiring is optional.
func (s *AuthService) WithMetrics(m *telemetry.Metrics) *AuthService {
	s.metrics = m
	return s
}

// WithClock overrides the internal clock, used in tests.
func (s *AuthService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// LoginResult describes the pending challenge issued by the first login step.
type LoginResult struct {
	Login     string
	Delivery  string
	Contact   string
	ExpiresAt time.Time
}

// Login performs the first authentication step: it verifies the password,
// maintains the failure counter, and on success dispatches a one-time code
// to the account's email. The lock check runs before any credential work so
// a locked account leaks nothing about password validity.
func (s *AuthService) Login(ctx context.Context, login, password, ip string) (*LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, fmt.Errorf("login is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	locked, err := s.attempts.IsLocked(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("check lockout: %w", err)
	}
	if locked {
		s.metrics.RecordLoginOutcome("locked")
		return nil, ErrAccountLocked
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.registerFailure(ctx, login, ip)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, s.registerFailure(ctx, login, ip)
	}

	if s.passwordExpired(user.PasswordChangedAt) {
		s.metrics.RecordLoginOutcome("password_expired")
		return nil, ErrPasswordExpired
	}

	if err := s.attempts.RecordSuccess(ctx, login); err != nil {
		return nil, fmt.Errorf("reset attempts: %w", err)
	}

	return s.issueChallenge(ctx, user)
}

// registerFailure bumps the failure counter and locks the account once the
// threshold is crossed. Bad passwords and unknown logins are
// indistinguishable to the caller. The crossing attempt itself is still
// answered as invalid credentials; the lock applies from the next attempt.
func (s *AuthService) registerFailure(ctx context.Context, login, ip string) error {
	failures, err := s.attempts.RecordFailure(ctx, login)
	if err != nil {
		return fmt.Errorf("record failure: %w", err)
	}

	threshold := s.cfg.Auth.LockoutThreshold
	if threshold <= 0 {
		threshold = 5
	}

	s.metrics.RecordLoginOutcome("invalid_credentials")

	if failures < threshold {
		return ErrInvalidCredentials
	}

	s.metrics.RecordLockout()

	if err := s.attempts.Lock(ctx, login); err != nil {
		return fmt.Errorf("lock account: %w", err)
	}

	s.logger.Warn("account locked after repeated failures",
		zap.String("login", login),
		zap.Int("failures", failures),
		zap.String("ip", logger.MaskIP(ip)),
	)

	if s.events != nil {
		event := domain.AccountLockedEvent{
			EventID:  uuid.NewString(),
			Login:    login,
			Failures: failures,
			LockedAt: s.now().UTC(),
			IP:       ip,
		}
		if err := s.events.PublishAccountLocked(ctx, event); err != nil {
			s.logger.Error("publish account locked event", zap.Error(err))
		}
	}

	return ErrInvalidCredentials
}

// issueChallenge creates a fresh one-time code, stores its digest, and
// dispatches the plaintext to the account email. A pending challenge for the
// same login is replaced, never stacked.
func (s *AuthService) issueChallenge(ctx context.Context, user *domain.User) (*LoginResult, error) {
	codeLength := s.cfg.Auth.CodeLength
	if codeLength <= 0 {
		codeLength = 6
	}

	code, err := security.GenerateNumericCode(codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	ttl := s.cfg.Auth.ChallengeTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	challenge, err := s.challenges.Store(ctx, user.Login, security.HashToken(code), ttl)
	if err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}

	s.dispatchCode(user.Email, code, ttl)
	s.metrics.RecordLoginOutcome("challenge_issued")
	s.metrics.RecordTwoFactorIssued()

	if s.events != nil {
		event := domain.TwoFactorIssuedEvent{
			EventID:   uuid.NewString(),
			UserID:    user.ID,
			Login:     user.Login,
			Delivery:  "email",
			Contact:   user.Email,
			IssuedAt:  challenge.CreatedAt,
			ExpiresAt: challenge.ExpiresAt,
		}
		if err := s.events.PublishTwoFactorIssued(ctx, event); err != nil {
			s.logger.Error("publish two factor issued event", zap.Error(err))
		}
	}

	s.logger.Info("second factor issued",
		zap.String("login", user.Login),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.Time("expires_at", challenge.ExpiresAt),
	)

	return &LoginResult{
		Login:     user.Login,
		Delivery:  "email",
		Contact:   logger.MaskEmail(user.Email),
		ExpiresAt: challenge.ExpiresAt,
	}, nil
}

// dispatchCode sends the code without blocking the login response. Delivery
// failures are logged, not surfaced: the caller already received a pending
// challenge and can retry login to get a fresh code.
func (s *AuthService) dispatchCode(email, code string, ttl time.Duration) {
	if s.mailer == nil {
		return
	}

	body := fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in %d minutes. If you did not request it, ignore this message.",
		code, int(ttl.Minutes()),
	)

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.mailer.Send(sendCtx, email, twoFactorSubject, body); err != nil {
			s.logger.Error("send verification code",
				zap.Error(err),
				zap.String("email", logger.MaskEmail(email)),
			)
		}
	}()
}

// VerifyTwoFactor performs the second authentication step. A matching code
// is consumed and exchanged for an access token; a mismatched code leaves
// the challenge in place for a retry within the TTL.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, login, code string) (string, *domain.User, error) {
	login = strings.TrimSpace(login)
	code = strings.TrimSpace(code)
	if login == "" {
		return "", nil, fmt.Errorf("login is required")
	}
	if code == "" {
		return "", nil, fmt.Errorf("code is required")
	}

	challenge, err := s.challenges.Fetch(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCode
		}
		return "", nil, fmt.Errorf("fetch challenge: %w", err)
	}

	if s.now().UTC().After(challenge.ExpiresAt) {
		if err := s.challenges.Delete(ctx, login); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("delete challenge: %w", err)
		}
		return "", nil, ErrChallengeExpired
	}

	if security.HashToken(code) != challenge.CodeDigest {
		return "", nil, ErrInvalidCode
	}

	if err := s.challenges.Delete(ctx, login); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", nil, fmt.Errorf("delete challenge: %w", err)
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	token, err := s.IssueToken(ctx, *user)
	if err != nil {
		return "", nil, err
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return token, &sanitized, nil
}

// Recover clears the lockout state and failure counter for the login. It
// runs unconditionally so support can unblock an account regardless of how
// it got stuck.
func (s *AuthService) Recover(ctx context.Context, login, ip string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return fmt.Errorf("login is required")
	}

	if err := s.attempts.Clear(ctx, login); err != nil {
		return fmt.Errorf("clear lockout: %w", err)
	}

	s.logger.Info("account recovered",
		zap.String("login", login),
		zap.String("ip", logger.MaskIP(ip)),
	)

	if s.events != nil {
		event := domain.AccountRecoveredEvent{
			EventID:     uuid.NewString(),
			Login:       login,
			RecoveredAt: s.now().UTC(),
			IP:          ip,
		}
		if err := s.events.PublishAccountRecovered(ctx, event); err != nil {
			s.logger.Error("publish account recovered event", zap.Error(err))
		}
	}

	return nil
}

// IssueToken issues a JWT access token for the authenticated user.
func (s *AuthService) IssueToken(_ context.Context, user domain.User) (string, error) {
	if user.ID == 0 {
		return "", fmt.Errorf("user id is required")
	}

	now := s.now().UTC()
	ttl := s.cfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	claimAudience := jwt.ClaimStrings{}
	if s.cfg.App.Name != "" {
		claimAudience = append(claimAudience, s.cfg.App.Name)
	}

	claims := AccessTokenClaims{
		UserID:  user.ID,
		Login:   user.Login,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    s.cfg.App.Name,
			Audience:  claimAudience,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.tokenGenerator.GetKID()

	signingKey, err := s.keyProvider.GetSigningKey()
	if err != nil {
		return "", fmt.Errorf("get signing key: %w", err)
	}

	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseAccessToken validates the JWT access token and returns its claims.
func (s *AuthService) ParseAccessToken(token string) (*AccessTokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("access token is required")
	}

	claims := &AccessTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		kid, ok := t.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid header not found")
		}

		return s.keyProvider.GetVerificationKey(kid)
	}, jwt.WithIssuer(s.cfg.App.Name), jwt.WithAudience(s.cfg.App.Name))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidAccessToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidAccessToken
	}

	return claims, nil
}

// Authorize checks that the claims allow acting on the target user. Admins
// may act on anyone, everyone else only on themselves. A token whose bound
// account no longer exists is rejected even if the signature is valid.
func (s *AuthService) Authorize(ctx context.Context, claims *AccessTokenClaims, targetUserID int64) error {
	if claims == nil {
		return ErrInvalidAccessToken
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidAccessToken
		}
		return fmt.Errorf("authorize token subject: %w", err)
	}

	if claims.IsAdmin || claims.UserID == targetUserID {
		return nil
	}
	return ErrForbidden
}

func (s *AuthService) passwordExpired(changedAt time.Time) bool {
	maxAge := s.cfg.Auth.PasswordMaxAge
	if maxAge <= 0 || changedAt.IsZero() {
		return false
	}
	return s.now().UTC().Sub(changedAt.UTC()) > maxAge
}

// AccessTokenClaims augments registered claims with account context.
type AccessTokenClaims struct {
	UserID  int64  `json:"uid"`
	Login   string `json:"login,omitempty"`
	IsAdmin bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}
