package stats

import "math/rand/v2"

// Ranks is the card alphabet used in the game (7 through ace).
var Ranks = []string{"7", "8", "9", "10", "J", "Q", "K", "A"}

// Suits in column order: spade, heart, diamond, club.  Column i of a draw
// always belongs to Suits[i], so display code pairs them by index.
var Suits = []string{"♠️", "♥️", "♦️", "♣️"}

// RandomCard picks a uniform random rank and suit.  No seeding contract:
// the draw is a novelty feature, not a statistical one.
func RandomCard() string {
	rank := Ranks[rand.IntN(len(Ranks))]
	suit := Suits[rand.IntN(len(Suits))]
	return rank + suit
}

// WithSuits pairs each card with its column suit for display,
// e.g. ["8","9","9","Q"] -> ["8♠️","9♥️","9♦️","Q♣️"].  Inputs longer
// than the suit list wrap around, though draws never exceed four cards.
func WithSuits(cards []string) []string {
	out := make([]string, len(cards))
	for i, card := range cards {
		out[i] = card + Suits[i%len(Suits)]
	}
	return out
}
