package game

// IsTrump reports whether c is trump under the given trump suit. Jokers and
// every rank-2 card are always trump, whatever suit was named.
func IsTrump(c Card, trump Suit) bool {
	if c.IsJoker() || c.Rank == Rank2 {
		return true
	}
	return trump != NoSuit && c.Suit == trump
}

// Compare orders two cards under trump. It returns 1 when a beats b, -1 when
// b beats a, and 0 for a tie. Ties include equal-rank trumps, off-suit 2s
// against each other, equal-rank non-trumps, and non-trumps of different
// suits. Copy numbers never break a tie; the trick fold keeps the card that
// was played first.
func Compare(a, b Card, trump Suit) int {
	ta, tb := IsTrump(a, trump), IsTrump(b, trump)
	switch {
	case ta && !tb:
		return 1
	case !ta && tb:
		return -1
	case ta && tb:
		return sign(trumpLevel(a, trump) - trumpLevel(b, trump))
	}
	if a.Suit != b.Suit {
		return 0
	}
	return sign(int(a.Rank) - int(b.Rank))
}

// trumpLevel ranks trump cards: big joker, small joker, trump-suit 2, other
// 2s, then the trump suit by rank.
func trumpLevel(c Card, trump Suit) int {
	switch {
	case c.Rank == RankBigJoker:
		return 20
	case c.Rank == RankSmallJoker:
		return 19
	case c.Rank == Rank2 && c.Suit == trump:
		return 18
	case c.Rank == Rank2:
		return 17
	default:
		return int(c.Rank)
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// Highest returns the strongest card among cards. On ties the earlier card is
// kept.
func Highest(cards []Card, trump Suit) Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if Compare(c, best, trump) > 0 {
			best = c
		}
	}
	return best
}
