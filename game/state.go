package game

import (
	"fmt"
	"math/rand"

	"github.com/emirpasic/gods/sets/treeset"
)

// Phase is the round phase the state machine is in.
type Phase string

const (
	PhaseLobby         Phase = "LOBBY"
	PhaseBid           Phase = "BID"
	PhaseSetTrump      Phase = "SET_TRUMP"
	PhaseCallFriends   Phase = "CALL_FRIENDS"
	PhaseDiscardBottom Phase = "DISCARD_BOTTOM"
	PhasePlay          Phase = "PLAY"
	PhaseSelectFriends Phase = "SELECT_FRIENDS"
	PhaseOver          Phase = "OVER"
)

// BottomPhase tracks where the bottom stack currently lives.
type BottomPhase string

const (
	BottomHidden     BottomPhase = "HIDDEN"
	BottomWithBanker BottomPhase = "WITH_BANKER"
	BottomRevealed   BottomPhase = "REVEALED"
)

// Rules holds the tunable numbers of a room. Use DefaultRules for the house
// rules.
type Rules struct {
	MinBid               int
	WinScore             int
	MinPlayers           int
	MaxPlayers           int
	BottomCardsFive      int // bottom size with 5 players
	BottomCardsSix       int // bottom size with 6 players
	BottomMultiplierTeam int
	BottomMultiplierSolo int // farmer wins the last trick with a single
	BottomMultiplierPair int // farmer wins the last trick with a pair
}

// DefaultRules returns the standard table rules.
func DefaultRules() Rules {
	return Rules{
		MinBid:               120,
		WinScore:             1000,
		MinPlayers:           5,
		MaxPlayers:           6,
		BottomCardsFive:      8,
		BottomCardsSix:       6,
		BottomMultiplierTeam: 1,
		BottomMultiplierSolo: 2,
		BottomMultiplierPair: 4,
	}
}

// Player is a seat at the table. TotalScore survives across rounds; every
// other field is reset when a round starts.
type Player struct {
	ID          string
	Name        string
	Hand        []Card
	TrickPoints int
	TotalScore  int
	IsFriend    bool
	IsRevealed  bool
}

// Play is one player's contribution to a trick.
type Play struct {
	PlayerID string `json:"playerId"`
	Cards    []Card `json:"cards"`
}

// TableEntry is one line of the append-only play log.
type TableEntry struct {
	TrickNo  int    `json:"trickNo"`
	PlayerID string `json:"playerId"`
	Cards    []Card `json:"cards"`
}

// TrickResult is a resolved trick.
type TrickResult struct {
	TrickNo  int    `json:"trickNo"`
	WinnerID string `json:"winnerId"`
	Plays    []Play `json:"plays"`
	Points   int    `json:"points"`
}

// BottomBonus records how the bottom stack was awarded at round end.
type BottomBonus struct {
	WinnerID    string `json:"winnerId"`
	Points      int    `json:"points"`
	Multiplier  int    `json:"multiplier"`
	Added       int    `json:"added"`
	LastWasPair bool   `json:"lastWasPair"`
}

// State is the authoritative game record of one room. It is not safe for
// concurrent use; the owning room serializes every action.
type State struct {
	Rules   Rules
	Players []*Player // seating order

	Phase   Phase
	ActorID string
	TurnID  string

	Bid       int
	BankerID  string
	TrumpSuit Suit

	FriendCount       int
	FriendDeclaration string
	FriendMarks       *treeset.Set

	BottomNeed  int
	BottomCards []Card
	BottomPhase BottomPhase

	CurrentTrick []Play
	Table        []TableEntry
	Tricks       []TrickResult
	TrickNo      int
	RoundNo      int

	Bonus      *BottomBonus
	Settlement *Settlement
}

// NewState returns an empty table in the lobby.
func NewState(rules Rules) *State {
	return &State{
		Rules:       rules,
		Phase:       PhaseLobby,
		FriendMarks: treeset.NewWithStringComparator(),
		BottomNeed:  rules.BottomCardsSix,
		BottomPhase: BottomHidden,
		TrickNo:     1,
	}
}

// AddPlayer seats a new player. Seating is only possible between rounds.
func (s *State) AddPlayer(id, name string) error {
	if s.InRound() {
		return ErrRoundInProgress
	}
	if s.Player(id) != nil {
		return ErrDuplicatePlayer
	}
	if len(s.Players) >= s.Rules.MaxPlayers {
		return ErrTableFull
	}
	s.Players = append(s.Players, &Player{ID: id, Name: name})
	return nil
}

// RemovePlayer frees a seat. Like seating, it is only possible between rounds.
func (s *State) RemovePlayer(id string) error {
	if s.InRound() {
		return ErrRoundInProgress
	}
	idx := s.seatOf(id)
	if idx < 0 {
		return ErrUnknownPlayer
	}
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)
	return nil
}

// InRound reports whether a round is being played (anything but LOBBY/OVER).
func (s *State) InRound() bool {
	return s.Phase != PhaseLobby && s.Phase != PhaseOver
}

// Player returns the seated player with id, or nil.
func (s *State) Player(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *State) seatOf(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) nextSeat(id string) *Player {
	idx := s.seatOf(id)
	return s.Players[(idx+1)%len(s.Players)]
}

// Banker returns the banker, or nil before bidding closes.
func (s *State) Banker() *Player {
	if s.BankerID == "" {
		return nil
	}
	return s.Player(s.BankerID)
}

// BottomSize returns the bottom stack size for n players.
func (r Rules) BottomSize(n int) int {
	if n == 5 {
		return r.BottomCardsFive
	}
	return r.BottomCardsSix
}

// StartRound shuffles a fresh deck with rng, deals every seat the same number
// of cards, sets the rest aside as the hidden bottom and opens bidding with
// the first seat. Total scores are preserved.
func (s *State) StartRound(rng *rand.Rand) error {
	if s.InRound() {
		return ErrRoundInProgress
	}
	n := len(s.Players)
	if n < s.Rules.MinPlayers || n > s.Rules.MaxPlayers {
		return fmt.Errorf("%w: need %d-%d players, have %d", ErrPlayerCount, s.Rules.MinPlayers, s.Rules.MaxPlayers, n)
	}

	deck := Shuffle(NewDeck(), rng)
	bottomNeed := s.Rules.BottomSize(n)
	perPlayer := (DeckSize - bottomNeed) / n

	s.Phase = PhaseBid
	s.ActorID = s.Players[0].ID
	s.TurnID = ""
	s.Bid = 0
	s.BankerID = ""
	s.TrumpSuit = NoSuit
	s.FriendCount = 2
	if n == 5 {
		s.FriendCount = 1
	}
	s.FriendDeclaration = ""
	s.FriendMarks.Clear()
	s.BottomNeed = bottomNeed
	s.CurrentTrick = nil
	s.Table = nil
	s.Tricks = nil
	s.TrickNo = 1
	s.RoundNo++
	s.Bonus = nil
	s.Settlement = nil

	for _, p := range s.Players {
		p.Hand = append([]Card(nil), deck[:perPlayer]...)
		deck = deck[perPlayer:]
		p.TrickPoints = 0
		p.IsFriend = false
		p.IsRevealed = false
	}
	s.BottomCards = append([]Card(nil), deck[:bottomNeed]...)
	s.BottomPhase = BottomHidden
	return nil
}

func (s *State) requirePhase(p Phase) error {
	if s.Phase != p {
		return fmt.Errorf("%w: expected %s, game is in %s", ErrWrongPhase, p, s.Phase)
	}
	return nil
}

func (s *State) requireBanker(playerID string) (*Player, error) {
	if s.BankerID == "" {
		return nil, ErrNoBanker
	}
	if playerID != s.BankerID {
		return nil, ErrNotBanker
	}
	return s.Banker(), nil
}

// onBankerTeam reports team membership as currently known: the banker plus
// any friend the banker has confirmed.
func (s *State) onBankerTeam(p *Player) bool {
	return p.ID == s.BankerID || (p.IsFriend && p.IsRevealed)
}

// CheckConservation verifies that no card was lost or duplicated and that
// every point is accounted for. A failure is a defect, not a player error.
func (s *State) CheckConservation() error {
	if s.Phase == PhaseLobby {
		return nil
	}
	seen := make(map[Card]string, DeckSize)
	unresolvedPoints := 0
	track := func(cards []Card, where string, unresolved bool) error {
		for _, c := range cards {
			if prev, dup := seen[c]; dup {
				return fmt.Errorf("card %s in both %s and %s", c, prev, where)
			}
			seen[c] = where
			if unresolved {
				unresolvedPoints += c.Points()
			}
		}
		return nil
	}
	for _, p := range s.Players {
		if err := track(p.Hand, "hand of "+p.ID, true); err != nil {
			return err
		}
	}
	if err := track(s.BottomCards, "bottom", true); err != nil {
		return err
	}
	for _, pl := range s.CurrentTrick {
		if err := track(pl.Cards, "current trick", true); err != nil {
			return err
		}
	}
	for _, t := range s.Tricks {
		for _, pl := range t.Plays {
			if err := track(pl.Cards, fmt.Sprintf("trick %d", t.TrickNo), false); err != nil {
				return err
			}
		}
	}
	if len(seen) != DeckSize {
		return fmt.Errorf("%d cards accounted for, want %d", len(seen), DeckSize)
	}

	banked := 0
	for _, t := range s.Tricks {
		banked += t.Points
	}
	if banked+unresolvedPoints != TotalPoints {
		return fmt.Errorf("points: %d banked + %d unresolved != %d", banked, unresolvedPoints, TotalPoints)
	}

	// Seats can be freed once a round is over, taking their trick points
	// with them, so per-player credit is only checked mid-round.
	if s.InRound() {
		credited := 0
		for _, p := range s.Players {
			credited += p.TrickPoints
		}
		if s.Bonus != nil {
			credited -= s.Bonus.Added
		}
		if credited != banked {
			return fmt.Errorf("points: players hold %d, tricks hold %d", credited, banked)
		}
	}
	return nil
}
