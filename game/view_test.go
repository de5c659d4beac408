package game

import (
	"encoding/json"
	"testing"
)

func TestPublicView_HidesBottomUntilRevealed(t *testing.T) {
	s := startRound(t, 5, 9)

	v := s.PublicView()
	if v.Bottom.Count != 8 || v.Bottom.Cards != nil {
		t.Errorf("hidden bottom should show count only, got %+v", v.Bottom)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	json.Unmarshal(data, &m)
	bottom := m["bottom"].(map[string]interface{})
	if _, ok := bottom["cards"]; ok {
		t.Error("hidden bottom JSON should not contain cards")
	}

	s.BottomPhase = BottomRevealed
	if v := s.PublicView(); len(v.Bottom.Cards) != 8 {
		t.Errorf("revealed bottom should list cards, got %d", len(v.Bottom.Cards))
	}
}

func TestPublicView_PlayersShowCountsNotCards(t *testing.T) {
	s := startRound(t, 6, 9)
	v := s.PublicView()

	if len(v.Players) != 6 {
		t.Fatalf("expected 6 players, got %d", len(v.Players))
	}
	for _, pv := range v.Players {
		if pv.HandCount != 17 {
			t.Errorf("%s: expected 17 cards, got %d", pv.ID, pv.HandCount)
		}
	}
	if v.CurrentTrick == nil || v.Table == nil {
		t.Error("trick and table should encode as empty arrays")
	}
}

func TestPublicView_FriendOnlyAfterReveal(t *testing.T) {
	s := newTable(t, 5)
	s.BankerID = "p1"
	s.Player("p2").IsFriend = true

	if s.PublicView().Players[1].IsFriend {
		t.Error("unrevealed friend should not be shown")
	}
	s.Player("p2").IsRevealed = true
	if !s.PublicView().Players[1].IsFriend {
		t.Error("revealed friend should be shown")
	}
}

func TestHand(t *testing.T) {
	s := startRound(t, 5, 9)
	h, ok := s.Hand("p3")
	if !ok || len(h.Cards) != 20 || h.PlayerID != "p3" {
		t.Errorf("unexpected hand view %+v ok=%v", h, ok)
	}
	if _, ok := s.Hand("ghost"); ok {
		t.Error("unknown player should have no hand")
	}
}
