package ports

import (
	"context"

	"github.com/practicewtf/identity-service/internal/core/domain"
)

// AuditRepository persists the authentication audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
