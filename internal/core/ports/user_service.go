package ports

import (
	"context"

	"github.com/practicewtf/identity-service/internal/core/domain"
)

type UserService interface {
	Lookup(ctx context.Context, username string) (*domain.User, error)
}
