package game

import (
	"fmt"
	"testing"
)

func mustCards(t *testing.T, ids ...string) []Card {
	t.Helper()
	cards, err := ParseCards(ids)
	if err != nil {
		t.Fatalf("ParseCards(%v): %v", ids, err)
	}
	return cards
}

// newTable seats n players named p1..pn in a fresh lobby.
func newTable(t *testing.T, n int) *State {
	t.Helper()
	s := NewState(DefaultRules())
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		if err := s.AddPlayer(id, "Player "+id); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
	return s
}

func checkConservation(t *testing.T, s *State, step string) {
	t.Helper()
	if err := s.CheckConservation(); err != nil {
		t.Fatalf("conservation broken after %s: %v", step, err)
	}
}
