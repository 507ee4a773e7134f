package types

// Draw is one historical draw: four card-value tokens, one per column.
// The column order is meaningful (spade, heart, diamond, club).
type Draw [4]string

type DrawsResponse struct {
	OK    bool   `json:"ok"`
	Draws []Draw `json:"draws"`
}

type HotCardsResponse struct {
	OK    bool     `json:"ok"`
	Cards []string `json:"cards"` // display form, rank + column suit
}

type SuggestionsResponse struct {
	OK   bool       `json:"ok"`
	Sets [][]string `json:"sets"`
}

type RandomCardResponse struct {
	OK   bool   `json:"ok"`
	Card string `json:"card"` // e.g. "Q♥️"
}

type PredictionEntry struct {
	Sets     [][]string `json:"sets"`
	ServedAt string     `json:"served_at"` // RFC3339
}

type PredictionsResponse struct {
	OK      bool              `json:"ok"`
	Entries []PredictionEntry `json:"entries"`
}
