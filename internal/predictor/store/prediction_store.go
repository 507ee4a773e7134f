package store

import (
	"context"
	"time"
)

// PredictionRecord is one suggestion-set response served to a subscriber.
type PredictionRecord struct {
	PrincipalID int64
	Sets        [][]string
	ServedAt    time.Time
}

// PredictionStore keeps per-principal prediction history.
type PredictionStore interface {
	RecordPrediction(ctx context.Context, rec PredictionRecord) error

	// ListRecent returns the principal's most recent predictions,
	// newest first, at most limit entries.
	ListRecent(ctx context.Context, principalID int64, limit int) ([]PredictionRecord, error)
}
