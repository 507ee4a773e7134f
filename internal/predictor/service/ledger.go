package service

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/chancelab/predictor/internal/predictor/store"
)

// EntitlementStatus is the result of the staleness test on one record.
type EntitlementStatus int

const (
	// StatusAbsent: no record for the principal.
	StatusAbsent EntitlementStatus = iota
	// StatusExpired: a record exists but its expiry has passed.  The
	// record is semantically absent and eligible for eviction.
	StatusExpired
	// StatusActive: a record exists and is still within its window.
	StatusActive
)

// Ledger is the single authority on entitlement.  It owns the in-memory
// entitlement map and its persisted snapshot; no other component may
// cache or bypass its checks.  All read/modify/persist sequences run
// under one mutex so concurrent operations on the same principal
// serialize cleanly.
type Ledger struct {
	deps LedgerDeps

	mu           sync.Mutex
	entitlements map[int64]time.Time
}

type LedgerDeps struct {
	Store  store.EntitlementStore
	Audit  store.AuditStore
	Logger *log.Logger

	// Window is the entitlement duration granted per Grant call.
	// Defaults to 24 hours.
	Window time.Duration

	// Now overrides the clock.  Defaults to time.Now.  Tests use this
	// to step through an entitlement's lifetime.
	Now func() time.Time
}

func NewLedger(ctx context.Context, deps LedgerDeps) (*Ledger, error) {
	if deps.Window <= 0 {
		deps.Window = 24 * time.Hour
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	entitlements, err := deps.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if entitlements == nil {
		entitlements = make(map[int64]time.Time)
	}

	return &Ledger{deps: deps, entitlements: entitlements}, nil
}

// IsEntitled reports whether the principal currently holds an active
// entitlement.  A record whose expiry has passed is evicted and the
// deletion persisted before false is returned — expiry is lazy, observed
// on the next check rather than on a timer.
func (l *Ledger) IsEntitled(ctx context.Context, principalID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.deps.Now().UTC()
	switch l.statusLocked(principalID, now) {
	case StatusActive:
		return true
	case StatusExpired:
		delete(l.entitlements, principalID)
		l.persistLocked(ctx)
		l.audit(ctx, store.AuditRecord{
			PrincipalID: principalID,
			Action:      store.AuditExpire,
			OccurredAt:  now,
		})
		return false
	default:
		return false
	}
}

// Grant sets the principal's entitlement to now + window, overwriting
// any existing record.  Repeated grants reset the window from the new
// grant time; remaining time is never added.
func (l *Ledger) Grant(ctx context.Context, principalID, actingID int64, now time.Time) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry := now.UTC().Add(l.deps.Window)
	l.entitlements[principalID] = expiry
	l.persistLocked(ctx)
	l.audit(ctx, store.AuditRecord{
		PrincipalID:     principalID,
		Action:          store.AuditGrant,
		ActingPrincipal: &actingID,
		ExpiresAt:       &expiry,
		OccurredAt:      now.UTC(),
	})
	return expiry
}

// Revoke deletes the principal's record and reports whether one existed.
func (l *Ledger) Revoke(ctx context.Context, principalID, actingID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entitlements[principalID]; !ok {
		return false
	}
	delete(l.entitlements, principalID)
	l.persistLocked(ctx)
	l.audit(ctx, store.AuditRecord{
		PrincipalID:     principalID,
		Action:          store.AuditRevoke,
		ActingPrincipal: &actingID,
		OccurredAt:      l.deps.Now().UTC(),
	})
	return true
}

// Expiry is the pure status read.  It applies the same staleness test as
// IsEntitled but never evicts or persists — an info query must not
// surprise the caller with a write.  A logically expired record reports
// as absent and is cleaned up by the next IsEntitled.
func (l *Ledger) Expiry(principalID int64) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.statusLocked(principalID, l.deps.Now().UTC()) != StatusActive {
		return time.Time{}, false
	}
	return l.entitlements[principalID], true
}

// Subscribers returns the principals with a currently active
// entitlement, in stable order.  Used for broadcast.
func (l *Ledger) Subscribers() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.deps.Now().UTC()
	var out []int64
	for id := range l.entitlements {
		if l.statusLocked(id, now) == StatusActive {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (l *Ledger) statusLocked(principalID int64, now time.Time) EntitlementStatus {
	expiry, ok := l.entitlements[principalID]
	if !ok {
		return StatusAbsent
	}
	if !now.Before(expiry) {
		return StatusExpired
	}
	return StatusActive
}

// persistLocked snapshots the full ledger to the durable store.  A
// failed write is logged and swallowed: the in-memory state stays
// authoritative for this process, and the next successful mutation
// rewrites the whole snapshot anyway.
func (l *Ledger) persistLocked(ctx context.Context) {
	snapshot := make(map[int64]time.Time, len(l.entitlements))
	for id, exp := range l.entitlements {
		snapshot[id] = exp
	}
	if err := l.deps.Store.Save(ctx, snapshot); err != nil && l.deps.Logger != nil {
		l.deps.Logger.Printf("ledger persist error: %v", err)
	}
}

// audit appends a mutation to the audit log.  Errors are intentionally
// not returned — a failed audit write should not prevent the
// entitlement change from taking effect.
func (l *Ledger) audit(ctx context.Context, rec store.AuditRecord) {
	if l.deps.Audit == nil {
		return
	}
	if err := l.deps.Audit.RecordEvent(ctx, rec); err != nil && l.deps.Logger != nil {
		l.deps.Logger.Printf("ledger audit error: %v", err)
	}
}
