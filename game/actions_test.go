package game

import (
	"errors"
	"math/rand"
	"testing"
)

// startRound deals a seeded round for n players.
func startRound(t *testing.T, n int, seed int64) *State {
	t.Helper()
	s := newTable(t, n)
	if err := s.StartRound(rand.New(rand.NewSource(seed))); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	return s
}

func bidAll(t *testing.T, s *State, bids ...int) {
	t.Helper()
	for _, b := range bids {
		if err := s.PlaceBid(s.ActorID, b); err != nil {
			t.Fatalf("PlaceBid(%s, %d): %v", s.ActorID, b, err)
		}
	}
}

func TestStartRound_DealsEvenly(t *testing.T) {
	for _, tc := range []struct{ n, hand, bottom, friends int }{
		{5, 20, 8, 1},
		{6, 17, 6, 2},
	} {
		s := startRound(t, tc.n, 1)
		for _, p := range s.Players {
			if len(p.Hand) != tc.hand {
				t.Errorf("%d players: %s has %d cards, want %d", tc.n, p.ID, len(p.Hand), tc.hand)
			}
		}
		if len(s.BottomCards) != tc.bottom || s.BottomNeed != tc.bottom {
			t.Errorf("%d players: bottom %d need %d, want %d", tc.n, len(s.BottomCards), s.BottomNeed, tc.bottom)
		}
		if s.FriendCount != tc.friends {
			t.Errorf("%d players: friend count %d, want %d", tc.n, s.FriendCount, tc.friends)
		}
		if s.Phase != PhaseBid || s.ActorID != "p1" || s.RoundNo != 1 {
			t.Errorf("unexpected start: phase=%s actor=%s round=%d", s.Phase, s.ActorID, s.RoundNo)
		}
		checkConservation(t, s, "deal")
	}
}

func TestStartRound_RejectsBadPlayerCount(t *testing.T) {
	s := newTable(t, 4)
	if err := s.StartRound(rand.New(rand.NewSource(1))); !errors.Is(err, ErrPlayerCount) {
		t.Errorf("expected ErrPlayerCount, got %v", err)
	}
	if s.Phase != PhaseLobby {
		t.Errorf("phase changed to %s", s.Phase)
	}
}

func TestStartRound_RejectsWhileInRound(t *testing.T) {
	s := startRound(t, 5, 1)
	if err := s.StartRound(rand.New(rand.NewSource(2))); !errors.Is(err, ErrRoundInProgress) {
		t.Errorf("expected ErrRoundInProgress, got %v", err)
	}
	if err := s.AddPlayer("late", "Late"); !errors.Is(err, ErrRoundInProgress) {
		t.Errorf("expected ErrRoundInProgress on AddPlayer, got %v", err)
	}
}

func TestAddPlayer_Limits(t *testing.T) {
	s := newTable(t, 6)
	if err := s.AddPlayer("p7", "Seven"); !errors.Is(err, ErrTableFull) {
		t.Errorf("expected ErrTableFull, got %v", err)
	}
	if err := s.AddPlayer("p1", "Again"); !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("expected ErrDuplicatePlayer, got %v", err)
	}
}

func TestRemovePlayer(t *testing.T) {
	s := newTable(t, 5)
	if err := s.RemovePlayer("p2"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if len(s.Players) != 4 || s.Players[1].ID != "p3" {
		t.Errorf("expected seats to close up, got %d seats with p3 at %s", len(s.Players), s.Players[1].ID)
	}
	if err := s.RemovePlayer("p2"); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("expected ErrUnknownPlayer, got %v", err)
	}

	s = startRound(t, 5, 3)
	if err := s.RemovePlayer("p1"); !errors.Is(err, ErrRoundInProgress) {
		t.Errorf("expected ErrRoundInProgress, got %v", err)
	}
}

func TestPlaceBid_SecondBidderWins(t *testing.T) {
	s := startRound(t, 5, 1)
	bidAll(t, s, 0, 150, 0, 0, 0)

	if s.BankerID != "p2" || s.Bid != 150 {
		t.Errorf("expected banker p2 at 150, got %s at %d", s.BankerID, s.Bid)
	}
	if s.Phase != PhaseSetTrump || s.ActorID != "p2" {
		t.Errorf("expected SET_TRUMP with p2 acting, got %s/%s", s.Phase, s.ActorID)
	}
}

func TestPlaceBid_AllPassDefaultsToFirstSeat(t *testing.T) {
	s := startRound(t, 5, 1)
	bidAll(t, s, 0, 0, 0, 0, 0)

	if s.BankerID != "p1" || s.Bid != 0 {
		t.Errorf("expected banker p1 at 0, got %s at %d", s.BankerID, s.Bid)
	}
}

func TestPlaceBid_EqualBidDoesNotReplaceBanker(t *testing.T) {
	s := startRound(t, 5, 1)
	bidAll(t, s, 130, 130, 125, 140, 140)

	if s.BankerID != "p4" || s.Bid != 140 {
		t.Errorf("expected banker p4 at 140, got %s at %d", s.BankerID, s.Bid)
	}
}

func TestPlaceBid_Rejections(t *testing.T) {
	s := startRound(t, 5, 1)

	if err := s.PlaceBid("p2", 150); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("expected ErrNotYourTurn, got %v", err)
	}
	if err := s.PlaceBid("p1", 100); !errors.Is(err, ErrBidTooLow) {
		t.Errorf("expected ErrBidTooLow, got %v", err)
	}
	if kind, ok := KindOf(s.PlaceBid("p1", 100)); !ok || kind != KindMalformed {
		t.Errorf("expected malformed kind, got %v ok=%v", kind, ok)
	}
	if s.ActorID != "p1" || s.Bid != 0 {
		t.Errorf("state changed after rejected bids: actor=%s bid=%d", s.ActorID, s.Bid)
	}
	if err := s.SetTrump("p1", "H"); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("expected ErrWrongPhase, got %v", err)
	}
}

func TestSetup_TrumpDeclareDiscard(t *testing.T) {
	s := startRound(t, 5, 3)
	bidAll(t, s, 0, 150, 0, 0, 0)
	banker := s.Banker()

	if err := s.SetTrump("p1", "H"); !errors.Is(err, ErrNotBanker) {
		t.Errorf("expected ErrNotBanker, got %v", err)
	}
	if err := s.SetTrump("p2", "J"); !errors.Is(err, ErrBadSuit) {
		t.Errorf("expected ErrBadSuit, got %v", err)
	}
	if err := s.SetTrump("p2", "h"); err != nil {
		t.Fatalf("SetTrump: %v", err)
	}
	if s.TrumpSuit != SuitHeart || s.Phase != PhaseCallFriends {
		t.Fatalf("unexpected state trump=%q phase=%s", s.TrumpSuit, s.Phase)
	}

	if err := s.DeclareFriends("p2", "   "); err != nil {
		t.Fatalf("DeclareFriends: %v", err)
	}
	if s.FriendDeclaration != defaultDeclaration {
		t.Errorf("expected default declaration, got %q", s.FriendDeclaration)
	}
	if len(banker.Hand) != 28 || len(s.BottomCards) != 0 || s.BottomPhase != BottomWithBanker {
		t.Fatalf("bottom not absorbed: hand=%d bottom=%d phase=%s", len(banker.Hand), len(s.BottomCards), s.BottomPhase)
	}
	checkConservation(t, s, "absorb")

	if err := s.DiscardBottom("p2", banker.Hand[:7]); !errors.Is(err, ErrDiscardCount) {
		t.Errorf("expected ErrDiscardCount, got %v", err)
	}
	notHeld := s.Players[0].Hand[:8]
	if err := s.DiscardBottom("p2", notHeld); !errors.Is(err, ErrCardNotHeld) {
		t.Errorf("expected ErrCardNotHeld, got %v", err)
	}

	discard := append([]Card(nil), banker.Hand[:8]...)
	if err := s.DiscardBottom("p2", discard); err != nil {
		t.Fatalf("DiscardBottom: %v", err)
	}
	if len(banker.Hand) != 20 || len(s.BottomCards) != 8 || s.BottomPhase != BottomHidden {
		t.Errorf("unexpected after discard: hand=%d bottom=%d phase=%s", len(banker.Hand), len(s.BottomCards), s.BottomPhase)
	}
	if s.Phase != PhasePlay || s.TurnID != "p2" {
		t.Errorf("expected PLAY led by p2, got %s/%s", s.Phase, s.TurnID)
	}
	checkConservation(t, s, "discard")
}

func TestMarkFriend(t *testing.T) {
	s := startRound(t, 6, 1)
	if err := s.MarkFriend("p1", "p2", true); !errors.Is(err, ErrNoBanker) {
		t.Errorf("expected ErrNoBanker, got %v", err)
	}
	bidAll(t, s, 120, 0, 0, 0, 0, 0)

	for _, id := range []string{"p5", "p1", "p3"} {
		if err := s.MarkFriend("p1", id, true); err != nil {
			t.Fatalf("MarkFriend(%s): %v", id, err)
		}
	}
	if err := s.MarkFriend("p1", "p3", false); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkFriend("p1", "nobody", true); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("expected ErrUnknownTarget, got %v", err)
	}
	if err := s.MarkFriend("p2", "p3", true); !errors.Is(err, ErrNotBanker) {
		t.Errorf("expected ErrNotBanker, got %v", err)
	}

	marks := s.Marks()
	if len(marks) != 2 || marks[0] != "p1" || marks[1] != "p5" {
		t.Errorf("expected sorted marks [p1 p5], got %v", marks)
	}
}

func TestPlayCards_TurnAndRotation(t *testing.T) {
	s := startRound(t, 5, 5)
	bidAll(t, s, 0, 150, 0, 0, 0)
	_ = s.SetTrump("p2", "S")
	_ = s.DeclareFriends("p2", "the other big joker")
	_ = s.DiscardBottom("p2", append([]Card(nil), s.Banker().Hand[:8]...))

	if _, err := s.PlayCards("p3", s.Player("p3").Hand[:1]); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("expected ErrNotYourTurn, got %v", err)
	}
	lead := s.Player("p2").Hand[0]
	if _, err := s.PlayCards("p2", []Card{lead}); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if s.TurnID != "p3" || len(s.CurrentTrick) != 1 || len(s.Table) != 1 {
		t.Errorf("unexpected after lead: turn=%s trick=%d table=%d", s.TurnID, len(s.CurrentTrick), len(s.Table))
	}
	checkConservation(t, s, "lead")
}

func TestResolveTrick_BigJokerWins(t *testing.T) {
	plays := []Play{
		{PlayerID: "p1", Cards: mustCards(t, "H-A-1")},
		{PlayerID: "p2", Cards: mustCards(t, "H-K-1")},
		{PlayerID: "p3", Cards: mustCards(t, "J-BJ-1")},
	}
	if got := ResolveTrick(plays, SuitSpade); got != 2 {
		t.Errorf("expected big joker (index 2) to win, got %d", got)
	}
	if got := trickPoints(plays); got != 10 {
		t.Errorf("expected 10 points, got %d", got)
	}
}

func TestResolveTrick_FirstPlayedWinsTies(t *testing.T) {
	plays := []Play{
		{PlayerID: "p1", Cards: mustCards(t, "S-9-1")},
		{PlayerID: "p2", Cards: mustCards(t, "S-9-2")},
		{PlayerID: "p3", Cards: mustCards(t, "D-A-1")},
	}
	if got := ResolveTrick(plays, SuitHeart); got != 0 {
		t.Errorf("expected lead to keep the trick, got %d", got)
	}
}

func TestResolveTrick_PairBeatsNonPair(t *testing.T) {
	plays := []Play{
		{PlayerID: "p1", Cards: mustCards(t, "S-3-1", "S-3-2")},
		{PlayerID: "p2", Cards: mustCards(t, "S-A-1", "S-K-1")},
		{PlayerID: "p3", Cards: mustCards(t, "H-4-1", "H-4-2")},
		{PlayerID: "p4", Cards: mustCards(t, "J-BJ-1", "C-7-1")},
	}
	if got := ResolveTrick(plays, SuitHeart); got != 2 {
		t.Errorf("expected trump pair (index 2) to win, got %d", got)
	}
}
