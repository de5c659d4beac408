package game

import "math/rand"

// DeckSize is the number of cards in two standard decks plus four jokers.
const DeckSize = 108

// TotalPoints is the point value of a full deck.
const TotalPoints = 200

var suitedRanks = []Rank{Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10, RankJ, RankQ, RankK, RankA}

// NewDeck returns the 108-card universe in canonical order: for each copy,
// the 52 suited cards followed by that copy's small and big joker.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for copyNo := 1; copyNo <= 2; copyNo++ {
		for _, s := range StandardSuits {
			for _, r := range suitedRanks {
				deck = append(deck, Card{Suit: s, Rank: r, Copy: copyNo})
			}
		}
	}
	for copyNo := 1; copyNo <= 2; copyNo++ {
		deck = append(deck, Card{Suit: SuitJoker, Rank: RankSmallJoker, Copy: copyNo})
		deck = append(deck, Card{Suit: SuitJoker, Rank: RankBigJoker, Copy: copyNo})
	}
	return deck
}

// Shuffle permutes deck in place with rng.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}
