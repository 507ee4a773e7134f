package store

import (
	"context"
	"time"
)

// EntitlementStore persists the full entitlement ledger as a snapshot.
// The ledger service rewrites the snapshot on every mutation, so an
// implementation never needs per-record operations.
type EntitlementStore interface {
	// Load returns the persisted ledger.  A missing or unreadable store
	// must yield an empty map and a nil error — losing the ledger only
	// degrades to "no one entitled", which is the safe default.
	Load(ctx context.Context) (map[int64]time.Time, error)

	// Save replaces the persisted ledger with the given snapshot.
	Save(ctx context.Context, entitlements map[int64]time.Time) error
}
