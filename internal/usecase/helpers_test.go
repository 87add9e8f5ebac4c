package usecase

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/infra/config"
	"github.com/proGsa/travel-booking/internal/infra/security"
	"github.com/proGsa/travel-booking/internal/repository"
)

// createTestKeyProvider creates a temporary RSA key pair and key provider for tests
func createTestKeyProvider(t *testing.T) security.KeyProvider {
	t.Helper()

	tmpDir := t.TempDir()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	// File name doubles as the key id, so the signing kid must match it.
	privateKeyPEM := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}
	privateKeyFile, err := os.Create(filepath.Join(tmpDir, "test-key.pem"))
	if err != nil {
		t.Fatalf("failed to create private key file: %v", err)
	}
	if err := pem.Encode(privateKeyFile, privateKeyPEM); err != nil {
		t.Fatalf("failed to encode private key: %v", err)
	}
	privateKeyFile.Close()

	keyProvider, err := security.NewDevKeyProvider(tmpDir)
	if err != nil {
		t.Fatalf("failed to create key provider: %v", err)
	}

	return keyProvider
}

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: map[int64]domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Login == user.Login {
			return 0, &repository.DuplicateKeyError{Field: "login"}
		}
		if existing.Email == user.Email {
			return 0, &repository.DuplicateKeyError{Field: "email"}
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Login == login {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetList(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []domain.User
	for _, user := range r.users {
		list = append(list, user)
	}
	return list, nil
}

func (r *memUserRepo) Update(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.FullName = user.FullName
	existing.Email = user.Email
	existing.Phone = user.Phone
	existing.PassportNumber = user.PassportNumber
	existing.IsAdmin = user.IsAdmin
	r.users[user.ID] = existing
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string, changedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.PasswordChangedAt = changedAt
	r.users[id] = user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memAttemptStore struct {
	mu       sync.Mutex
	failures map[string]int
	locked   map[string]bool
}

func newMemAttemptStore() *memAttemptStore {
	return &memAttemptStore{failures: map[string]int{}, locked: map[string]bool{}}
}

func (s *memAttemptStore) RecordFailure(_ context.Context, login string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[login]++
	return s.failures[login], nil
}

func (s *memAttemptStore) RecordSuccess(_ context.Context, login string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, login)
	return nil
}

func (s *memAttemptStore) Lock(_ context.Context, login string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked[login] = true
	return nil
}

func (s *memAttemptStore) IsLocked(_ context.Context, login string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked[login], nil
}

func (s *memAttemptStore) Clear(_ context.Context, login string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locked, login)
	delete(s.failures, login)
	return nil
}

type memChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]domain.Challenge
	now        func() time.Time
}

func newMemChallengeStore() *memChallengeStore {
	return &memChallengeStore{challenges: map[string]domain.Challenge{}, now: time.Now}
}

func (s *memChallengeStore) Store(_ context.Context, login, codeDigest string, ttl time.Duration) (*domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	challenge := domain.Challenge{
		Login:      login,
		CodeDigest: codeDigest,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	s.challenges[login] = challenge
	return &challenge, nil
}

func (s *memChallengeStore) Fetch(_ context.Context, login string) (*domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if challenge, ok := s.challenges[login]; ok {
		copied := challenge
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memChallengeStore) Delete(_ context.Context, login string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[login]; !ok {
		return repository.ErrNotFound
	}
	delete(s.challenges, login)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type memMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *memMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *memMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type memPublisher struct {
	mu        sync.Mutex
	locked    []domain.AccountLockedEvent
	recovered []domain.AccountRecoveredEvent
	issued    []domain.TwoFactorIssuedEvent
	register  []domain.UserRegisteredEvent
	password  []domain.PasswordChangedEvent
}

func (p *memPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.register = append(p.register, event)
	return nil
}

func (p *memPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked = append(p.locked, event)
	return nil
}

func (p *memPublisher) PublishAccountRecovered(_ context.Context, event domain.AccountRecoveredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recovered = append(p.recovered, event)
	return nil
}

func (p *memPublisher) PublishTwoFactorIssued(_ context.Context, event domain.TwoFactorIssuedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued = append(p.issued, event)
	return nil
}

func (p *memPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.password = append(p.password, event)
	return nil
}

type authFixture struct {
	service    *AuthService
	users      *memUserRepo
	attempts   *memAttemptStore
	challenges *memChallengeStore
	mailer     *memMailer
	events     *memPublisher
	cfg        *config.AppConfig
}

func mustHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return hash
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	keyProvider := createTestKeyProvider(t)
	tokenGenerator, err := security.NewTokenGenerator(keyProvider, "test-key")
	if err != nil {
		t.Fatalf("failed to create token generator: %v", err)
	}

	cfg := &config.AppConfig{
		App: config.AppSettings{Name: "travel-booking", Env: "test"},
		JWT: config.JWTSettings{AccessTokenTTL: 15 * time.Minute},
		Auth: config.AuthSettings{
			LockoutThreshold: 5,
			LockoutTTL:       time.Hour,
			ChallengeTTL:     10 * time.Minute,
			CodeLength:       6,
			PasswordMaxAge:   90 * 24 * time.Hour,
		},
	}

	users := newMemUserRepo()
	attempts := newMemAttemptStore()
	challenges := newMemChallengeStore()
	mailer := &memMailer{}
	events := &memPublisher{}

	service := NewAuthService(cfg, users, attempts, challenges, mailer, events, tokenGenerator, keyProvider, nil)

	return &authFixture{
		service:    service,
		users:      users,
		attempts:   attempts,
		challenges: challenges,
		mailer:     mailer,
		events:     events,
		cfg:        cfg,
	}
}

func (f *authFixture) seedUser(t *testing.T, login, password string) domain.User {
	t.Helper()

	user := domain.User{
		FullName:          "Test User",
		Login:             login,
		Email:             login + "@example.com",
		Phone:             "+79991234567",
		PassportNumber:    "4510123456",
		PasswordHash:      mustHash(t, password),
		PasswordChangedAt: time.Now().UTC(),
	}

	id, err := f.users.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	user.ID = id
	return user
}

// waitForMail blocks until the asynchronous dispatcher delivered at least n
// messages or the timeout elapses.
func (f *authFixture) waitForMail(t *testing.T, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.mailer.count() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d mails, got %d", n, f.mailer.count())
}
