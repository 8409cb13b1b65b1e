package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/practicewtf/identity-service/internal/core/domain"
	"github.com/practicewtf/identity-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting events to the given
// repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, in ports.AuditEventInput) error {
	event := &domain.AuditEvent{
		Username:  in.Username,
		Action:    in.Action,
		Result:    in.Result,
		Timestamp: in.Timestamp,
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Debug().
		Str("username", in.Username).
		Str("action", in.Action).
		Str("result", in.Result).
		Msg("audit event recorded")

	return nil
}
