package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/chancelab/predictor/internal/db"
	"github.com/chancelab/predictor/internal/predictor/store"
)

type AuditStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAuditStore(db *sql.DB, writer *dbpkg.Worker) *AuditStore {
	return &AuditStore{db: db, writer: writer}
}

func (s *AuditStore) RecordEvent(ctx context.Context, rec store.AuditRecord) error {
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}
	occurredMs := rec.OccurredAt.UTC().UnixMilli()

	var acting any
	if rec.ActingPrincipal != nil {
		acting = *rec.ActingPrincipal
	}

	var expiresMs any
	if rec.ExpiresAt != nil {
		expiresMs = rec.ExpiresAt.UTC().UnixMilli()
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO entitlement_events(
  principal_id, action, acting_principal, expires_at_ms, occurred_at_ms
) VALUES (?, ?, ?, ?, ?);
`,
			rec.PrincipalID, rec.Action, acting, expiresMs, occurredMs,
		); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}
		return nil
	})
}
