package ports

import (
	"context"
	"time"
)

// AuditEventInput is the DTO handed from the auth flow to the audit pipeline.
type AuditEventInput struct {
	Username  string
	Action    string
	Result    string
	Timestamp time.Time
}

// AuditService processes a single audit event end-to-end.
type AuditService interface {
	Process(ctx context.Context, in AuditEventInput) error
}
