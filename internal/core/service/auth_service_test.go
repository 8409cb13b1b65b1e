package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/practicewtf/identity-service/internal/core/domain"
	"github.com/practicewtf/identity-service/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Authorities = append([]string(nil), u.Authorities...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

type stubLimiter struct {
	throttled bool
	failures  int
	resets    int
}

func (l *stubLimiter) TooManyFailures(_ context.Context, _ string) (bool, error) {
	return l.throttled, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, _ string) error {
	l.failures++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

type stubRecorder struct {
	events []ports.AuditEventInput
}

func (r *stubRecorder) Enqueue(event ports.AuditEventInput) {
	r.events = append(r.events, event)
}

func newTestAuthService(repo ports.UserRepository, limiter LoginLimiter, audit AuditRecorder) *AuthService {
	return NewAuthService(repo, limiter, audit, "secret", time.Hour, bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil, nil)

	user, err := svc.Register(context.Background(), "alice", "Secret123!")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "Secret123!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Secret123!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(user.Authorities) != 1 || user.Authorities[0] != domain.AuthorityUser {
		t.Fatalf("expected default authorities, got %v", user.Authorities)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil, nil)

	if _, err := svc.Register(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil, nil)

	if _, err := svc.Register(context.Background(), "alice", "Secret123!"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "Other456!"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// First record must survive the rejected second attempt.
	stored, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123!")); err != nil {
		t.Fatalf("first registration corrupted: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil, nil)

	if _, err := svc.Register(context.Background(), "carol", "s3cretpw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cretpw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "carol" {
		t.Fatalf("expected sub carol, got %v", claims["sub"])
	}
	authorities, ok := claims["authorities"].([]interface{})
	if !ok || len(authorities) != 1 || authorities[0] != domain.AuthorityUser {
		t.Fatalf("unexpected authorities claim: %v", claims["authorities"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("token missing expiration")
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil, nil)

	if _, err := svc.Register(context.Background(), "dave", "goodpass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPw := svc.Login(context.Background(), "dave", "badpass")
	_, _, noUser := svc.Login(context.Background(), "ghost", "whatever")

	if wrongPw != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if noUser != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", noUser)
	}
}

func TestAuthService_Login_HashSurvivesCostChange(t *testing.T) {
	repo := newStubUserRepo()
	oldCost := NewAuthService(repo, nil, nil, "secret", time.Hour, bcrypt.MinCost, zerolog.Nop())
	newCost := NewAuthService(repo, nil, nil, "secret", time.Hour, bcrypt.MinCost+2, zerolog.Nop())

	if _, err := oldCost.Register(context.Background(), "erin", "longlived"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// The stored hash encodes its own cost; a service configured with a
	// higher cost for new registrations must still verify it.
	if _, _, err := newCost.Login(context.Background(), "erin", "longlived"); err != nil {
		t.Fatalf("login after cost change failed: %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{throttled: true}
	svc := newTestAuthService(repo, limiter, nil)

	if _, _, err := svc.Login(context.Background(), "frank", "pw"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterBookkeeping(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{}
	svc := newTestAuthService(repo, limiter, nil)

	if _, err := svc.Register(context.Background(), "gina", "rightpass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _ = svc.Login(context.Background(), "gina", "wrongpass")
	if limiter.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", limiter.failures)
	}

	if _, _, err := svc.Login(context.Background(), "gina", "rightpass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset on success, got %d", limiter.resets)
	}
}

func TestAuthService_AuditTrail(t *testing.T) {
	repo := newStubUserRepo()
	recorder := &stubRecorder{}
	svc := newTestAuthService(repo, nil, recorder)

	_, _ = svc.Register(context.Background(), "hana", "pw123456")
	_, _ = svc.Register(context.Background(), "hana", "pw123456")
	_, _, _ = svc.Login(context.Background(), "hana", "pw123456")
	_, _, _ = svc.Login(context.Background(), "hana", "nope")

	want := []struct{ action, result string }{
		{domain.AuditActionRegister, domain.AuditResultSuccess},
		{domain.AuditActionRegister, domain.AuditResultConflict},
		{domain.AuditActionLogin, domain.AuditResultSuccess},
		{domain.AuditActionLogin, domain.AuditResultDenied},
	}
	if len(recorder.events) != len(want) {
		t.Fatalf("expected %d audit events, got %d", len(want), len(recorder.events))
	}
	for i, w := range want {
		got := recorder.events[i]
		if got.Action != w.action || got.Result != w.result || got.Username != "hana" {
			t.Fatalf("event %d: expected %s/%s, got %s/%s (%s)", i, w.action, w.result, got.Action, got.Result, got.Username)
		}
	}
}
