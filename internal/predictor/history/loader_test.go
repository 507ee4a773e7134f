package history_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chancelab/predictor/internal/predictor/history"
	"github.com/chancelab/predictor/internal/predictor/types"
)

func writeHistory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chance.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write history file: %v", err)
	}
	return path
}

func TestLoad_ParsesCardColumns(t *testing.T) {
	path := writeHistory(t,
		"27/11/2025,52009,8,9,9,Q,\n"+
			"26/11/2025,52008,A,K,7,10,\n")

	draws, err := history.NewLoader(path).Load(200)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(draws))
	}
	if draws[0] != (types.Draw{"8", "9", "9", "Q"}) {
		t.Errorf("unexpected first draw: %v", draws[0])
	}
	if draws[1] != (types.Draw{"A", "K", "7", "10"}) {
		t.Errorf("unexpected second draw: %v", draws[1])
	}
}

func TestLoad_SkipsShortRows(t *testing.T) {
	path := writeHistory(t,
		"27/11/2025,52009,8,9,9,Q,\n"+
			"bad,row,only,five,fields\n"+
			"25/11/2025,52007,J,J,Q,K,\n")

	draws, err := history.NewLoader(path).Load(200)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected the 5-field row to be skipped, got %d draws", len(draws))
	}
}

func TestLoad_SkipsEmptyCardFields(t *testing.T) {
	path := writeHistory(t,
		"27/11/2025,52009,8, ,9,Q,\n"+
			"26/11/2025,52008,A,K,7,10,\n")

	draws, err := history.NewLoader(path).Load(200)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(draws) != 1 {
		t.Fatalf("expected row with blank card to be skipped, got %d draws", len(draws))
	}
	if draws[0][0] != "A" {
		t.Errorf("unexpected surviving draw: %v", draws[0])
	}
}

func TestLoad_PreservesSourceOrderAndTruncates(t *testing.T) {
	path := writeHistory(t,
		"3,1,7,7,7,7,\n"+
			"2,2,8,8,8,8,\n"+
			"1,3,9,9,9,9,\n")

	draws, err := history.NewLoader(path).Load(2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected truncation to 2 draws, got %d", len(draws))
	}
	// Source order is kept; the loader never re-sorts.
	if draws[0][0] != "7" || draws[1][0] != "8" {
		t.Errorf("expected source order preserved, got %v", draws)
	}
}

func TestLoad_MissingFileYieldsEmpty(t *testing.T) {
	loader := history.NewLoader(filepath.Join(t.TempDir(), "nope.csv"))

	draws, err := loader.Load(200)
	if err != nil {
		t.Fatalf("expected nil error for missing file, got %v", err)
	}
	if len(draws) != 0 {
		t.Errorf("expected no draws, got %d", len(draws))
	}
}
