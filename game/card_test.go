package game

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func TestNewDeck_UniverseAndPoints(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}
	seen := make(map[string]bool)
	for _, c := range deck {
		if seen[c.ID()] {
			t.Errorf("duplicate card %s", c)
		}
		seen[c.ID()] = true
	}
	if got := SumPoints(deck); got != TotalPoints {
		t.Errorf("expected %d points, got %d", TotalPoints, got)
	}

	jokers := 0
	for _, c := range deck {
		if c.IsJoker() {
			jokers++
		}
	}
	if jokers != 4 {
		t.Errorf("expected 4 jokers, got %d", jokers)
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	deck := Shuffle(NewDeck(), rand.New(rand.NewSource(7)))
	canonical := NewDeck()
	for _, c := range canonical {
		if !containsCard(deck, c) {
			t.Fatalf("shuffled deck lost %s", c)
		}
	}
	same := 0
	for i := range deck {
		if deck[i] == canonical[i] {
			same++
		}
	}
	if same == DeckSize {
		t.Error("shuffle left the deck in canonical order")
	}
}

func TestShuffle_SameSeedSameOrder(t *testing.T) {
	a := Shuffle(NewDeck(), rand.New(rand.NewSource(42)))
	b := Shuffle(NewDeck(), rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestParseCard_RoundTripsDeck(t *testing.T) {
	for _, c := range NewDeck() {
		parsed, err := ParseCard(c.ID())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c.ID(), err)
		}
		if parsed != c {
			t.Errorf("ParseCard(%q) = %+v, want %+v", c.ID(), parsed, c)
		}
	}
}

func TestParseCard_RejectsMalformed(t *testing.T) {
	bad := []string{"", "S-10", "S-10-3", "S-10-0", "X-10-1", "S-1-1", "S-SJ-1", "J-10-1", "S-10-1-1", "s-10-1"}
	for _, id := range bad {
		_, err := ParseCard(id)
		if !errors.Is(err, ErrUnknownCard) {
			t.Errorf("ParseCard(%q): expected ErrUnknownCard, got %v", id, err)
		}
	}
}

func TestCardPoints(t *testing.T) {
	cases := map[string]int{
		"S-5-1":  5,
		"H-10-2": 10,
		"D-K-1":  10,
		"C-Q-1":  0,
		"J-BJ-1": 0,
		"S-2-1":  0,
	}
	for id, want := range cases {
		c := mustCards(t, id)[0]
		if got := c.Points(); got != want {
			t.Errorf("%s: expected %d points, got %d", id, want, got)
		}
	}
}

func TestIsPair(t *testing.T) {
	c := mustCards(t, "S-3-1", "S-3-2", "S-4-1", "H-3-1")
	if !IsPair(c[0], c[1]) {
		t.Error("two copies of S-3 should be a pair")
	}
	if IsPair(c[0], c[0]) {
		t.Error("a card is not a pair with itself")
	}
	if IsPair(c[0], c[2]) {
		t.Error("different ranks are not a pair")
	}
	if IsPair(c[0], c[3]) {
		t.Error("different suits are not a pair")
	}
}

func TestCardJSON_UsesWireID(t *testing.T) {
	data, err := json.Marshal([]Card{{Suit: SuitJoker, Rank: RankBigJoker, Copy: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["J-BJ-2"]` {
		t.Errorf("unexpected JSON %s", data)
	}

	var back []Card
	if err := json.Unmarshal([]byte(`["H-A-1","C-2-2"]`), &back); err != nil {
		t.Fatal(err)
	}
	if back[0] != (Card{Suit: SuitHeart, Rank: RankA, Copy: 1}) || back[1] != (Card{Suit: SuitClub, Rank: Rank2, Copy: 2}) {
		t.Errorf("unexpected cards %v", back)
	}
}

func TestParseTrumpSuit(t *testing.T) {
	if s, ok := ParseTrumpSuit(" h "); !ok || s != SuitHeart {
		t.Errorf("expected H, got %q ok=%v", s, ok)
	}
	for _, tok := range []string{"", "J", "X", "spade"} {
		if _, ok := ParseTrumpSuit(tok); ok {
			t.Errorf("ParseTrumpSuit(%q) should fail", tok)
		}
	}
}
