package memory

import (
	"context"
	"sync"

	"github.com/chancelab/predictor/internal/predictor/store"
)

// AuditStore is an in-memory append-only log of ledger mutations.
// It is intended for use in tests and dev environments.
type AuditStore struct {
	mu     sync.Mutex
	events []store.AuditRecord
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) RecordEvent(_ context.Context, rec store.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, rec)
	return nil
}

// Events returns a copy of all recorded events.  Test-only helper.
func (s *AuditStore) Events() []store.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.AuditRecord, len(s.events))
	copy(out, s.events)
	return out
}
