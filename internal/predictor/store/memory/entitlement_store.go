package memory

import (
	"context"
	"sync"
	"time"
)

// EntitlementStore keeps the ledger snapshot in memory.  It is intended
// for use in tests and dev environments.
type EntitlementStore struct {
	mu   sync.Mutex
	data map[int64]time.Time
}

func NewEntitlementStore() *EntitlementStore {
	return &EntitlementStore{data: make(map[int64]time.Time)}
}

func (s *EntitlementStore) Load(_ context.Context) (map[int64]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]time.Time, len(s.data))
	for id, exp := range s.data {
		out[id] = exp
	}
	return out, nil
}

func (s *EntitlementStore) Save(_ context.Context, entitlements map[int64]time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[int64]time.Time, len(entitlements))
	for id, exp := range entitlements {
		s.data[id] = exp
	}
	return nil
}
