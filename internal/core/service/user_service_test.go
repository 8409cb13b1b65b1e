package service

import (
	"context"
	"testing"

	"github.com/practicewtf/identity-service/internal/core/domain"
)

func TestUserService_Lookup(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["alice"] = &domain.User{
		ID:          "alice",
		Username:    "alice",
		Authorities: domain.DefaultAuthorities(),
	}
	svc := NewUserService(repo)

	user, err := svc.Lookup(context.Background(), "alice")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserService_Lookup_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	if _, err := svc.Lookup(context.Background(), "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Lookup_EmptyUsername(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	if _, err := svc.Lookup(context.Background(), ""); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
