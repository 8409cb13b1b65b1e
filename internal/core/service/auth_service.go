package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/practicewtf/identity-service/internal/core/domain"
	"github.com/practicewtf/identity-service/internal/core/ports"
)

// LoginLimiter abstracts the failed-attempt throttle (Redis).
type LoginLimiter interface {
	TooManyFailures(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuditRecorder accepts audit events for asynchronous persistence.
type AuditRecorder interface {
	Enqueue(event ports.AuditEventInput)
}

// dummyHash is verified against when the username does not exist, so an
// unknown-user login costs the same as a wrong password. Both cases surface
// as ErrInvalidCredentials; nothing reveals whether the username is taken.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements registration and login.
type AuthService struct {
	repo       ports.UserRepository
	limiter    LoginLimiter
	audit      AuditRecorder
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	log        zerolog.Logger
}

// NewAuthService wires the auth flow. The limiter and audit recorder are
// optional; nil disables throttling / audit recording respectively.
// bcryptCost applies to new registrations only: stored hashes are
// self-describing, so old hashes verify unchanged after a cost bump.
func NewAuthService(
	repo ports.UserRepository,
	limiter LoginLimiter,
	audit AuditRecorder,
	jwtSecret string,
	tokenTTL time.Duration,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		limiter:    limiter,
		audit:      audit,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Register hashes the password, attaches the default authority set, and
// persists the user. Duplicate usernames surface as domain.ErrUserExists
// straight from the repository; there is no check-then-act here.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Authorities:  domain.DefaultAuthorities(),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.record(username, domain.AuditActionRegister, domain.AuditResultConflict)
		}
		return nil, err
	}

	s.record(username, domain.AuditActionRegister, domain.AuditResultSuccess)
	s.log.Info().Str("username", username).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues a signed token. All invalid-login
// reasons collapse into domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		throttled, err := s.limiter.TooManyFailures(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("limiter check failed, allowing attempt")
		} else if throttled {
			s.record(username, domain.AuditActionLogin, domain.AuditResultThrottled)
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return "", nil, s.deny(ctx, username)
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, s.deny(ctx, username)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("limiter reset failed")
		}
	}
	s.record(username, domain.AuditActionLogin, domain.AuditResultSuccess)
	s.log.Info().Str("username", username).Msg("login succeeded")
	return token, user, nil
}

func (s *AuthService) deny(ctx context.Context, username string) error {
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("limiter record failed")
		}
	}
	s.record(username, domain.AuditActionLogin, domain.AuditResultDenied)
	return domain.ErrInvalidCredentials
}

func (s *AuthService) record(username, action, result string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEventInput{
		Username:  username,
		Action:    action,
		Result:    result,
		Timestamp: time.Now().UTC(),
	})
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         user.Username,
		"authorities": user.Authorities,
		"iat":         now.Unix(),
		"exp":         now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
