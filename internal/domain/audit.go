package domain

import (
	"context"
	"time"
)

// Command outcomes recorded in the audit log.
const (
	ResultAllowed   = "allowed"
	ResultDenied    = "denied"
	ResultRejected  = "rejected"
	ResultThrottled = "throttled"
)

// CommandRecord is one audited admin-command decision.
type CommandRecord struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Verb      string    `json:"verb"`
	Target    string    `json:"target"`
	Result    string    `json:"result"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditLog persists admin-command decisions.
type AuditLog interface {
	LogCommand(ctx context.Context, rec CommandRecord) error
	Recent(ctx context.Context, limit int) ([]CommandRecord, error)
	Close() error
}
