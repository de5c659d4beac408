package game

import "fmt"

// PlaceBid records the acting player's bid. 0 passes; anything else must be
// at least Rules.MinBid. Only a bid strictly above the current high bid takes
// the banker seat. Bidding closes when the turn comes back to the first seat;
// if nobody bid, the first seat becomes banker at 0.
func (s *State) PlaceBid(playerID string, bid int) error {
	if err := s.requirePhase(PhaseBid); err != nil {
		return err
	}
	if playerID != s.ActorID {
		return ErrNotYourTurn
	}
	if bid != 0 && bid < s.Rules.MinBid {
		return fmt.Errorf("%w (%d), got %d", ErrBidTooLow, s.Rules.MinBid, bid)
	}

	if bid > s.Bid {
		s.Bid = bid
		s.BankerID = playerID
	}

	first := s.Players[0].ID
	s.ActorID = s.nextSeat(playerID).ID
	if s.ActorID == first {
		if s.BankerID == "" {
			s.BankerID = first
		}
		s.Phase = PhaseSetTrump
		s.ActorID = s.BankerID
	}
	return nil
}
