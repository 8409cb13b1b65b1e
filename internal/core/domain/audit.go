package domain

import "time"

// Audit actions and results recorded for authentication traffic.
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"

	AuditResultSuccess   = "success"
	AuditResultConflict  = "conflict"
	AuditResultDenied    = "denied"
	AuditResultThrottled = "throttled"
)

// AuditEvent records the outcome of a single registration or login attempt.
type AuditEvent struct {
	Username  string
	Action    string
	Result    string
	Timestamp time.Time
}
