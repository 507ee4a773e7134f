package store

import (
	"context"
	"time"
)

// Ledger mutation kinds recorded in the audit log.
const (
	AuditGrant  = "grant"
	AuditRevoke = "revoke"
	AuditExpire = "expire"
)

// AuditRecord captures one entitlement ledger mutation.
// ActingPrincipal is nil for lazy expiry, which no one triggers explicitly.
// ExpiresAt is set for grants only.
type AuditRecord struct {
	PrincipalID     int64
	Action          string
	ActingPrincipal *int64
	ExpiresAt       *time.Time
	OccurredAt      time.Time
}

// AuditStore persists ledger mutations as an append-only log.
type AuditStore interface {
	RecordEvent(ctx context.Context, rec AuditRecord) error
}
