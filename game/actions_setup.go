package game

import (
	"fmt"
	"strings"
)

// defaultDeclaration is shown when the banker declares nothing.
const defaultDeclaration = "(no declaration)"

// SetTrump names the trump suit. Only the banker may act.
func (s *State) SetTrump(playerID, token string) error {
	if err := s.requirePhase(PhaseSetTrump); err != nil {
		return err
	}
	if _, err := s.requireBanker(playerID); err != nil {
		return err
	}
	suit, ok := ParseTrumpSuit(token)
	if !ok {
		return fmt.Errorf("%w, got %q", ErrBadSuit, token)
	}
	s.TrumpSuit = suit
	s.Phase = PhaseCallFriends
	s.ActorID = s.BankerID
	return nil
}

// DeclareFriends records the banker's free-text friend hint. The text is never
// matched against the friends confirmed at round end. The hidden bottom moves
// into the banker's hand and the banker must then discard.
func (s *State) DeclareFriends(playerID, declaration string) error {
	if err := s.requirePhase(PhaseCallFriends); err != nil {
		return err
	}
	banker, err := s.requireBanker(playerID)
	if err != nil {
		return err
	}

	declaration = strings.TrimSpace(declaration)
	if declaration == "" {
		declaration = defaultDeclaration
	}
	s.FriendDeclaration = declaration
	s.FriendMarks.Clear()

	if s.BottomPhase == BottomHidden && len(s.BottomCards) > 0 {
		banker.Hand = append(banker.Hand, s.BottomCards...)
		s.BottomCards = nil
		s.BottomPhase = BottomWithBanker
	}

	s.Phase = PhaseDiscardBottom
	s.ActorID = s.BankerID
	return nil
}

// MarkFriend updates the banker's private friend candidates. It is allowed in
// any phase once a banker exists, and the banker may mark themself.
func (s *State) MarkFriend(playerID, targetID string, isFriend bool) error {
	if _, err := s.requireBanker(playerID); err != nil {
		return err
	}
	if s.Player(targetID) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, targetID)
	}
	if isFriend {
		s.FriendMarks.Add(targetID)
	} else {
		s.FriendMarks.Remove(targetID)
	}
	return nil
}

// Marks returns the banker's friend candidates in sorted order.
func (s *State) Marks() []string {
	out := make([]string, 0, s.FriendMarks.Size())
	for _, v := range s.FriendMarks.Values() {
		out = append(out, v.(string))
	}
	return out
}

// DiscardBottom puts exactly BottomNeed cards from the banker's hand back as
// the hidden bottom and starts play with the banker leading.
func (s *State) DiscardBottom(playerID string, cards []Card) error {
	if err := s.requirePhase(PhaseDiscardBottom); err != nil {
		return err
	}
	banker, err := s.requireBanker(playerID)
	if err != nil {
		return err
	}
	if len(cards) != s.BottomNeed {
		return fmt.Errorf("%w: need %d, got %d", ErrDiscardCount, s.BottomNeed, len(cards))
	}
	if err := checkHeld(banker.Hand, cards); err != nil {
		return err
	}

	banker.Hand = removeCards(banker.Hand, cards)
	s.BottomCards = append([]Card(nil), cards...)
	s.BottomPhase = BottomHidden

	s.Phase = PhasePlay
	s.TurnID = s.BankerID
	s.ActorID = ""
	s.CurrentTrick = nil
	return nil
}

// checkHeld verifies that cards are distinct and all present in hand.
func checkHeld(hand, cards []Card) error {
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = struct{}{}
		if !containsCard(hand, c) {
			return fmt.Errorf("%w: %s", ErrCardNotHeld, c)
		}
	}
	return nil
}
