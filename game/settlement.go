package game

import "fmt"

// PlayerRef names a player in a settlement summary.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FinalScore is one row of the settlement table.
type FinalScore struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TrickPoints int    `json:"trickPoints"`
	TotalScore  int    `json:"totalScore"`
	Delta       int    `json:"delta"`
	BankerTeam  bool   `json:"bankerTeam"`
}

// Settlement is the outcome of a round.
type Settlement struct {
	RoundNo           int          `json:"roundNo"`
	Success           bool         `json:"success"`
	Bid               int          `json:"bid"`
	BankerID          string       `json:"bankerId"`
	TrumpSuit         Suit         `json:"trumpSuit"`
	BankerPoints      int          `json:"bankerPoints"`
	FarmerPoints      int          `json:"farmerPoints"`
	FarmerTarget      int          `json:"farmerTarget"`
	BottomPoints      int          `json:"bottomPoints"`
	BottomPointsAdded int          `json:"bottomPointsAdded"`
	BottomMultiplier  int          `json:"bottomMultiplier"`
	LastTrickWasPair  bool         `json:"lastTrickWasDouble"`
	LastTrickWinnerID string       `json:"lastTrickWinnerId"`
	BankerTeam        []PlayerRef  `json:"bankerTeam"`
	FinalScores       []FinalScore `json:"finalScores"`
}

// awardBottom credits the bottom stack to the last trick's winner and hands
// the banker the friend confirmation. Friends are not confirmed yet, so only
// the banker counts as team here.
func (s *State) awardBottom(winner *Player, lastWasPair bool) {
	points := SumPoints(s.BottomCards)
	mult := s.Rules.BottomMultiplierTeam
	if !s.onBankerTeam(winner) {
		mult = s.Rules.BottomMultiplierSolo
		if lastWasPair {
			mult = s.Rules.BottomMultiplierPair
		}
	}
	added := points * mult
	winner.TrickPoints += added
	s.Bonus = &BottomBonus{
		WinnerID:    winner.ID,
		Points:      points,
		Multiplier:  mult,
		Added:       added,
		LastWasPair: lastWasPair,
	}

	s.Phase = PhaseSelectFriends
	s.ActorID = s.BankerID
	s.TurnID = ""
}

// ConfirmFriends fixes the banker's team and settles the round. The ids are
// taken as given; the earlier declaration is advisory only.
func (s *State) ConfirmFriends(playerID string, friendIDs []string) (*Settlement, error) {
	if err := s.requirePhase(PhaseSelectFriends); err != nil {
		return nil, err
	}
	if _, err := s.requireBanker(playerID); err != nil {
		return nil, err
	}
	friends := make(map[string]bool, len(friendIDs))
	for _, id := range friendIDs {
		if s.Player(id) == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
		}
		friends[id] = true
	}
	// Repeated ids name the same friend once.
	if len(friends) > len(s.Players)-1 {
		return nil, fmt.Errorf("%w: at most %d", ErrTooManyFriends, len(s.Players)-1)
	}

	for _, p := range s.Players {
		p.IsFriend = friends[p.ID]
		p.IsRevealed = friends[p.ID]
	}
	return s.settle(), nil
}

func (s *State) settle() *Settlement {
	st := &Settlement{
		RoundNo:      s.RoundNo,
		Bid:          s.Bid,
		BankerID:     s.BankerID,
		TrumpSuit:    s.TrumpSuit,
		FarmerTarget: TotalPoints - s.Bid,
		BottomPoints: SumPoints(s.BottomCards),
	}
	if s.Bonus != nil {
		st.BottomPointsAdded = s.Bonus.Added
		st.BottomMultiplier = s.Bonus.Multiplier
		st.LastTrickWasPair = s.Bonus.LastWasPair
		st.LastTrickWinnerID = s.Bonus.WinnerID
	}

	for _, p := range s.Players {
		if s.onBankerTeam(p) {
			st.BankerPoints += p.TrickPoints
			st.BankerTeam = append(st.BankerTeam, PlayerRef{ID: p.ID, Name: p.Name})
		} else {
			st.FarmerPoints += p.TrickPoints
		}
	}
	st.Success = st.FarmerPoints <= st.FarmerTarget

	for _, p := range s.Players {
		team := s.onBankerTeam(p)
		delta := st.FarmerPoints
		if team {
			delta = s.Bid
			if !st.Success {
				delta = -s.Bid
			}
		}
		p.TotalScore += delta
		st.FinalScores = append(st.FinalScores, FinalScore{
			ID:          p.ID,
			Name:        p.Name,
			TrickPoints: p.TrickPoints,
			TotalScore:  p.TotalScore,
			Delta:       delta,
			BankerTeam:  team,
		})
	}

	s.Phase = PhaseOver
	s.ActorID = ""
	s.BottomPhase = BottomRevealed
	s.Settlement = st
	return st
}

// Standings reports players whose cumulative score reached +WinScore
// (winners) or -WinScore (losers). It never changes the phase.
func (s *State) Standings() (winners, losers []PlayerRef) {
	for _, p := range s.Players {
		switch {
		case p.TotalScore >= s.Rules.WinScore:
			winners = append(winners, PlayerRef{ID: p.ID, Name: p.Name})
		case p.TotalScore <= -s.Rules.WinScore:
			losers = append(losers, PlayerRef{ID: p.ID, Name: p.Name})
		}
	}
	return winners, losers
}
