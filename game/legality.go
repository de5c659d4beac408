package game

// face identifies a card ignoring its copy number.
type face struct {
	suit Suit
	rank Rank
}

// faceIndex counts cards per face. Since the two copies of a face are the only
// cards sharing it, a count of two is a genuine pair.
type faceIndex map[face]int

func newFaceIndex(cards []Card) faceIndex {
	idx := make(faceIndex, len(cards))
	for _, c := range cards {
		idx[face{c.Suit, c.Rank}]++
	}
	return idx
}

func (idx faceIndex) hasPair() bool {
	for _, n := range idx {
		if n >= 2 {
			return true
		}
	}
	return false
}

// followGroup returns the cards of hand a follower must answer lead with:
// every trump when lead is trump, otherwise the non-trump cards of lead's
// suit.
func followGroup(hand []Card, lead Card, trump Suit) []Card {
	leadTrump := IsTrump(lead, trump)
	var group []Card
	for _, c := range hand {
		ct := IsTrump(c, trump)
		if leadTrump && ct || !leadTrump && !ct && c.Suit == lead.Suit {
			group = append(group, c)
		}
	}
	return group
}

// ValidatePlay checks whether play is legal for a player holding hand. lead
// is the first play of the current trick, or nil when the player is leading.
func ValidatePlay(hand, lead, play []Card, trump Suit) error {
	if err := checkHeld(hand, play); err != nil {
		return err
	}
	if len(play) == 0 || len(play) > 2 {
		return ErrPlaySize
	}

	if len(lead) == 0 {
		if len(play) == 2 && !IsPair(play[0], play[1]) {
			return ErrLeadNotPair
		}
		return nil
	}

	leadPair := len(lead) == 2
	if leadPair && len(play) != 2 {
		return ErrMustPlayTwo
	}
	if !leadPair && len(play) != 1 {
		return ErrMustPlayOne
	}

	group := followGroup(hand, lead[0], trump)
	if len(group) == 0 {
		return nil
	}

	if !leadPair {
		if !containsCard(group, play[0]) {
			return ErrMustFollowSuit
		}
		return nil
	}

	fromGroup := 0
	for _, c := range play {
		if containsCard(group, c) {
			fromGroup++
		}
	}
	if newFaceIndex(group).hasPair() {
		if fromGroup != 2 || !IsPair(play[0], play[1]) {
			return ErrMustFollowPair
		}
		return nil
	}
	if fromGroup == 0 {
		return ErrMustIncludeSuit
	}
	if len(group) >= 2 && fromGroup < 2 {
		return ErrMustPlayTwoOfSuit
	}
	return nil
}
