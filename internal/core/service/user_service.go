package service

import (
	"context"

	"github.com/practicewtf/identity-service/internal/core/domain"
	"github.com/practicewtf/identity-service/internal/core/ports"
)

// UserService exposes the read-only lookup over the user store.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Lookup returns the stored record for a username, or domain.ErrUserNotFound.
func (s *UserService) Lookup(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByUsername(ctx, username)
}
