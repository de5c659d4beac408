package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit is the suit component of a card. Jokers carry SuitJoker.
type Suit string

const (
	NoSuit      Suit = ""
	SuitSpade   Suit = "S"
	SuitHeart   Suit = "H"
	SuitDiamond Suit = "D"
	SuitClub    Suit = "C"
	SuitJoker   Suit = "J"
)

// StandardSuits are the four suits a banker may name as trump.
var StandardSuits = []Suit{SuitSpade, SuitHeart, SuitDiamond, SuitClub}

// ParseTrumpSuit accepts a suit token (case-insensitive) and returns the suit.
func ParseTrumpSuit(token string) (Suit, bool) {
	s := Suit(strings.ToUpper(strings.TrimSpace(token)))
	for _, std := range StandardSuits {
		if s == std {
			return s, true
		}
	}
	return NoSuit, false
}

// Rank is the face value of a card. The numeric value doubles as the natural
// ordering used inside a suit (A high); jokers sit above every suited rank.
type Rank int

const (
	Rank2          Rank = 2
	Rank3          Rank = 3
	Rank4          Rank = 4
	Rank5          Rank = 5
	Rank6          Rank = 6
	Rank7          Rank = 7
	Rank8          Rank = 8
	Rank9          Rank = 9
	Rank10         Rank = 10
	RankJ          Rank = 11
	RankQ          Rank = 12
	RankK          Rank = 13
	RankA          Rank = 14
	RankSmallJoker Rank = 16
	RankBigJoker   Rank = 17
)

// String returns the protocol token for a Rank.
func (r Rank) String() string {
	switch {
	case r >= Rank2 && r <= Rank10:
		return strconv.Itoa(int(r))
	case r == RankJ:
		return "J"
	case r == RankQ:
		return "Q"
	case r == RankK:
		return "K"
	case r == RankA:
		return "A"
	case r == RankSmallJoker:
		return "SJ"
	case r == RankBigJoker:
		return "BJ"
	default:
		return "?"
	}
}

func parseRank(token string) (Rank, bool) {
	switch token {
	case "J":
		return RankJ, true
	case "Q":
		return RankQ, true
	case "K":
		return RankK, true
	case "A":
		return RankA, true
	case "SJ":
		return RankSmallJoker, true
	case "BJ":
		return RankBigJoker, true
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < int(Rank2) || n > int(Rank10) {
		return 0, false
	}
	return Rank(n), true
}

// Card is one physical card of the doubled deck. Copy (1 or 2) tells the two
// decks apart so that (Suit, Rank, Copy) is unique across all 108 cards.
type Card struct {
	Suit Suit
	Rank Rank
	Copy int
}

// ID returns the wire identifier, e.g. "S-10-1" or "J-BJ-2".
func (c Card) ID() string {
	return fmt.Sprintf("%s-%s-%d", c.Suit, c.Rank, c.Copy)
}

func (c Card) String() string {
	return c.ID()
}

// IsJoker reports whether the card is a small or big joker.
func (c Card) IsJoker() bool {
	return c.Suit == SuitJoker
}

// Points is the scoring value of the card: 5s are worth 5, 10s and kings 10.
func (c Card) Points() int {
	switch c.Rank {
	case Rank5:
		return 5
	case Rank10, RankK:
		return 10
	default:
		return 0
	}
}

// SameFace reports whether two cards share suit and rank (ignoring copy).
func (c Card) SameFace(o Card) bool {
	return c.Suit == o.Suit && c.Rank == o.Rank
}

// MarshalText encodes the card as its wire id.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.ID()), nil
}

// UnmarshalText decodes a wire id.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a wire id. Jokers must use suit J with rank SJ or BJ, and
// suited cards may not use joker ranks.
func ParseCard(id string) (Card, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	suit := Suit(parts[0])
	rank, ok := parseRank(parts[1])
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	copyNo, err := strconv.Atoi(parts[2])
	if err != nil || copyNo < 1 || copyNo > 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	isJokerRank := rank == RankSmallJoker || rank == RankBigJoker
	switch suit {
	case SuitJoker:
		if !isJokerRank {
			return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
		}
	case SuitSpade, SuitHeart, SuitDiamond, SuitClub:
		if isJokerRank {
			return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
		}
	default:
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return Card{Suit: suit, Rank: rank, Copy: copyNo}, nil
}

// ParseCards parses a list of wire ids, stopping at the first bad one.
func ParseCards(ids []string) ([]Card, error) {
	out := make([]Card, 0, len(ids))
	for _, id := range ids {
		c, err := ParseCard(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// IsPair reports whether two cards form a genuine pair: same suit and rank,
// different copy.
func IsPair(a, b Card) bool {
	return a.SameFace(b) && a.Copy != b.Copy
}

// SumPoints totals the point value of cards.
func SumPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

func containsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// removeCards returns hand without the given cards. Callers must have checked
// membership first.
func removeCards(hand []Card, cards []Card) []Card {
	out := make([]Card, 0, len(hand))
	for _, h := range hand {
		if !containsCard(cards, h) {
			out = append(out, h)
		}
	}
	return out
}
