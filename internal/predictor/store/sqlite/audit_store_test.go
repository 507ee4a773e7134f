package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/chancelab/predictor/internal/predictor/store"
	"github.com/chancelab/predictor/internal/predictor/store/sqlite"
)

func TestRecordEvent_Grant(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewAuditStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	acting := int64(1001)
	expiry := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	err := s.RecordEvent(ctx, store.AuditRecord{
		PrincipalID:     42,
		Action:          store.AuditGrant,
		ActingPrincipal: &acting,
		ExpiresAt:       &expiry,
		OccurredAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	var (
		principal  int64
		action     string
		actingGot  int64
		expiresMs  int64
		occurredMs int64
	)
	err = conn.QueryRowContext(ctx, `
SELECT principal_id, action, acting_principal, expires_at_ms, occurred_at_ms
FROM entitlement_events;
`).Scan(&principal, &action, &actingGot, &expiresMs, &occurredMs)
	if err != nil {
		t.Fatalf("query event: %v", err)
	}

	if principal != 42 || action != store.AuditGrant {
		t.Errorf("unexpected row: principal=%d action=%q", principal, action)
	}
	if actingGot != acting {
		t.Errorf("expected acting=%d, got %d", acting, actingGot)
	}
	if expiresMs != expiry.UnixMilli() {
		t.Errorf("expected expires_at_ms=%d, got %d", expiry.UnixMilli(), expiresMs)
	}
}

func TestRecordEvent_ExpireHasNullActingAndExpiry(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewAuditStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	err := s.RecordEvent(ctx, store.AuditRecord{
		PrincipalID: 42,
		Action:      store.AuditExpire,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	var actingNull, expiresNull bool
	err = conn.QueryRowContext(ctx, `
SELECT acting_principal IS NULL, expires_at_ms IS NULL FROM entitlement_events;
`).Scan(&actingNull, &expiresNull)
	if err != nil {
		t.Fatalf("query event: %v", err)
	}
	if !actingNull || !expiresNull {
		t.Errorf("expected NULL acting and expiry for expire event, got actingNull=%v expiresNull=%v", actingNull, expiresNull)
	}
}

func TestRecordEvent_DefaultsOccurredAt(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewAuditStore(conn, newTestWriter(t, conn))

	err := s.RecordEvent(context.Background(), store.AuditRecord{
		PrincipalID: 7,
		Action:      store.AuditRevoke,
	})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	var occurredMs int64
	if err := conn.QueryRow(`SELECT occurred_at_ms FROM entitlement_events;`).Scan(&occurredMs); err != nil {
		t.Fatalf("query event: %v", err)
	}
	if occurredMs == 0 {
		t.Error("expected occurred_at_ms to default to now")
	}
}
