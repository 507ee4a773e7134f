package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	dbpkg "github.com/chancelab/predictor/internal/db"
	"github.com/chancelab/predictor/internal/predictor/store"
)

type PredictionStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewPredictionStore(db *sql.DB, writer *dbpkg.Worker) *PredictionStore {
	return &PredictionStore{db: db, writer: writer}
}

func (s *PredictionStore) RecordPrediction(ctx context.Context, rec store.PredictionRecord) error {
	if rec.ServedAt.IsZero() {
		rec.ServedAt = time.Now().UTC()
	}

	setsJSON, err := json.Marshal(rec.Sets)
	if err != nil {
		return fmt.Errorf("RecordPrediction marshal sets: %w", err)
	}
	servedMs := rec.ServedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO predictions(principal_id, sets_json, served_at_ms)
VALUES (?, ?, ?);
`,
			rec.PrincipalID, string(setsJSON), servedMs,
		); err != nil {
			return fmt.Errorf("RecordPrediction insert: %w", err)
		}
		return nil
	})
}

func (s *PredictionStore) ListRecent(ctx context.Context, principalID int64, limit int) ([]store.PredictionRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT principal_id, sets_json, served_at_ms
FROM predictions
WHERE principal_id = ?
ORDER BY served_at_ms DESC, id DESC
LIMIT ?;
`, principalID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent query: %w", err)
	}
	defer rows.Close()

	var out []store.PredictionRecord
	for rows.Next() {
		var rec store.PredictionRecord
		var setsJSON string
		var servedMs int64

		if err := rows.Scan(&rec.PrincipalID, &setsJSON, &servedMs); err != nil {
			return nil, fmt.Errorf("ListRecent scan: %w", err)
		}
		if err := json.Unmarshal([]byte(setsJSON), &rec.Sets); err != nil {
			return nil, fmt.Errorf("ListRecent unmarshal sets: %w", err)
		}
		rec.ServedAt = time.UnixMilli(servedMs).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecent rows: %w", err)
	}
	return out, nil
}
