// Package jsonfile persists the entitlement ledger as a single JSON
// document: principal id (as a string key) mapped to an expiry instant in
// seconds since epoch.  The format is shared with earlier deployments, so
// fractional-second floats must be accepted on load.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type EntitlementStore struct {
	path string
}

func NewEntitlementStore(path string) *EntitlementStore {
	return &EntitlementStore{path: path}
}

// Load reads the persisted ledger.  A missing file, unreadable file,
// malformed JSON, or a legacy list-shaped document all load as an empty
// ledger — the safe degradation is "no one entitled", never a startup
// failure.
func (s *EntitlementStore) Load(_ context.Context) (map[int64]time.Time, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return map[int64]time.Time{}, nil
	}

	var raw map[string]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		// Corrupt document or the legacy list format: start over.
		return map[int64]time.Time{}, nil
	}

	out := make(map[int64]time.Time, len(raw))
	for key, expiry := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		sec, frac := math.Modf(expiry)
		out[id] = time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
	}
	return out, nil
}

// Save rewrites the full ledger snapshot.  The document is written to a
// temp file and renamed into place so a crash mid-write never leaves a
// half-written ledger behind.
func (s *EntitlementStore) Save(_ context.Context, entitlements map[int64]time.Time) error {
	raw := make(map[string]float64, len(entitlements))
	for id, exp := range entitlements {
		raw[strconv.FormatInt(id, 10)] = float64(exp.UnixNano()) / float64(time.Second)
	}

	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir ledger dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write ledger temp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
