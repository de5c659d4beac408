package game

func isPairPlay(p Play) bool {
	return len(p.Cards) == 2 && IsPair(p.Cards[0], p.Cards[1])
}

// ResolveTrick returns the index of the winning play. A genuine pair beats any
// other shape; between equal shapes a later play must strictly beat the
// current best's highest card, so ties go to whoever played first.
func ResolveTrick(plays []Play, trump Suit) int {
	best := 0
	for i := 1; i < len(plays); i++ {
		bestPair, pair := isPairPlay(plays[best]), isPairPlay(plays[i])
		if pair != bestPair {
			if pair {
				best = i
			}
			continue
		}
		if Compare(Highest(plays[i].Cards, trump), Highest(plays[best].Cards, trump), trump) > 0 {
			best = i
		}
	}
	return best
}

// trickPoints totals every card played in a trick.
func trickPoints(plays []Play) int {
	total := 0
	for _, p := range plays {
		total += SumPoints(p.Cards)
	}
	return total
}
