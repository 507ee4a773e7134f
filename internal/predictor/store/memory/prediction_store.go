package memory

import (
	"context"
	"sync"

	"github.com/chancelab/predictor/internal/predictor/store"
)

// PredictionStore keeps prediction history in memory, newest last.
type PredictionStore struct {
	mu   sync.Mutex
	recs []store.PredictionRecord
}

func NewPredictionStore() *PredictionStore {
	return &PredictionStore{}
}

func (s *PredictionStore) RecordPrediction(_ context.Context, rec store.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *PredictionStore) ListRecent(_ context.Context, principalID int64, limit int) ([]store.PredictionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.PredictionRecord
	for i := len(s.recs) - 1; i >= 0 && len(out) < limit; i-- {
		if s.recs[i].PrincipalID == principalID {
			out = append(out, s.recs[i])
		}
	}
	return out, nil
}
