package ports

import (
	"context"

	"github.com/practicewtf/identity-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
//
// Create must be atomic with respect to concurrent calls for the same
// username: uniqueness is enforced by the storage layer, never by a
// check-then-act in application code.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
