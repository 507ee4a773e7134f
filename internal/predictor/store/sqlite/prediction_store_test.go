package sqlite_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/chancelab/predictor/internal/predictor/store"
	"github.com/chancelab/predictor/internal/predictor/store/sqlite"
)

func TestPredictions_RoundTrip(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewPredictionStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	sets := [][]string{{"A", "K", "Q", "J"}, {"A", "K", "Q", "10"}}
	servedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := s.RecordPrediction(ctx, store.PredictionRecord{
		PrincipalID: 42,
		Sets:        sets,
		ServedAt:    servedAt,
	})
	if err != nil {
		t.Fatalf("RecordPrediction: %v", err)
	}

	recs, err := s.ListRecent(ctx, 42, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if !reflect.DeepEqual(recs[0].Sets, sets) {
		t.Errorf("expected sets %v, got %v", sets, recs[0].Sets)
	}
	if !recs[0].ServedAt.Equal(servedAt) {
		t.Errorf("expected served_at %v, got %v", servedAt, recs[0].ServedAt)
	}
}

func TestPredictions_NewestFirstWithLimit(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewPredictionStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.RecordPrediction(ctx, store.PredictionRecord{
			PrincipalID: 42,
			Sets:        [][]string{{"A", "K", "Q", "J"}},
			ServedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordPrediction %d: %v", i, err)
		}
	}

	recs, err := s.ListRecent(ctx, 42, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(recs))
	}
	if !recs[0].ServedAt.After(recs[1].ServedAt) {
		t.Errorf("expected newest first, got %v then %v", recs[0].ServedAt, recs[1].ServedAt)
	}
}

func TestPredictions_ScopedToPrincipal(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewPredictionStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	for _, id := range []int64{42, 43} {
		err := s.RecordPrediction(ctx, store.PredictionRecord{
			PrincipalID: id,
			Sets:        [][]string{{"7", "8", "9", "10"}},
			ServedAt:    time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("RecordPrediction: %v", err)
		}
	}

	recs, err := s.ListRecent(ctx, 42, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recs) != 1 || recs[0].PrincipalID != 42 {
		t.Errorf("expected only principal 42's history, got %v", recs)
	}
}
