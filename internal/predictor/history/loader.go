// Package history reads the draw-history CSV the analyzer consumes.
//
// Each row has the shape:
//
//	date,draw_number,card1,card2,card3,card4,
//
// Only the four card columns are used.  The loader never re-sorts: rows
// come back in source order, which the upstream exporter keeps
// most-recent-first.
package history

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chancelab/predictor/internal/predictor/types"
)

type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses up to maxRecords draws from the CSV.  Rows with fewer than
// 6 fields or with any empty card column are skipped silently — partial
// corruption of the history file should not abort analysis.  A missing
// file yields an empty slice, not an error.
func (l *Loader) Load(maxRecords int) ([]types.Draw, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows vary; we validate length ourselves

	var draws []types.Draw
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A mangled row is skipped like a short one.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			break
		}

		if len(row) < 6 {
			continue
		}

		var draw types.Draw
		ok := true
		for i := 0; i < 4; i++ {
			card := strings.TrimSpace(row[2+i])
			if card == "" {
				ok = false
				break
			}
			draw[i] = card
		}
		if !ok {
			continue
		}

		draws = append(draws, draw)
		if len(draws) == maxRecords {
			break
		}
	}

	return draws, nil
}
