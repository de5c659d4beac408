package game

// PlayerView is the public representation of a seat. Hands are never exposed
// here; each player receives their own through HandView.
type PlayerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HandCount   int    `json:"handCount"`
	TrickPoints int    `json:"trickPoints"`
	TotalScore  int    `json:"totalScore"`
	IsBanker    bool   `json:"isBanker"`
	// IsFriend is only set once the banker has confirmed friends.
	IsFriend bool `json:"isFriend"`
}

// BottomView shows the bottom stack. Cards are only listed once revealed.
type BottomView struct {
	Phase BottomPhase `json:"phase"`
	Count int         `json:"count"`
	Cards []Card      `json:"cards,omitempty"`
}

// GameView is the snapshot broadcast to everyone in a room.
type GameView struct {
	Phase             Phase        `json:"phase"`
	RoundNo           int          `json:"roundNo"`
	ActorID           string       `json:"actorId,omitempty"`
	TurnID            string       `json:"turnId,omitempty"`
	Bid               int          `json:"bid"`
	BankerID          string       `json:"bankerId,omitempty"`
	TrumpSuit         Suit         `json:"trumpSuit,omitempty"`
	FriendCount       int          `json:"friendCount"`
	FriendDeclaration string       `json:"friendDeclaration,omitempty"`
	BottomNeed        int          `json:"bottomNeed"`
	Bottom            BottomView   `json:"bottom"`
	TrickNo           int          `json:"trickNo"`
	CurrentTrick      []Play       `json:"currentTrick"`
	LastTrick         *TrickResult `json:"lastTrick,omitempty"`
	Table             []TableEntry `json:"table"`
	Players           []PlayerView `json:"players"`
	Bonus             *BottomBonus `json:"bottomBonus,omitempty"`
	Settlement        *Settlement  `json:"settlement,omitempty"`
}

// HandView is a player's private hand.
type HandView struct {
	PlayerID string `json:"playerId"`
	Cards    []Card `json:"cards"`
}

// PublicView builds the shared snapshot of the state.
func (s *State) PublicView() GameView {
	v := GameView{
		Phase:             s.Phase,
		RoundNo:           s.RoundNo,
		ActorID:           s.ActorID,
		TurnID:            s.TurnID,
		Bid:               s.Bid,
		BankerID:          s.BankerID,
		TrumpSuit:         s.TrumpSuit,
		FriendCount:       s.FriendCount,
		FriendDeclaration: s.FriendDeclaration,
		BottomNeed:        s.BottomNeed,
		Bottom:            s.bottomView(),
		TrickNo:           s.TrickNo,
		CurrentTrick:      s.CurrentTrick,
		Table:             s.Table,
		Bonus:             s.Bonus,
		Settlement:        s.Settlement,
	}
	if v.CurrentTrick == nil {
		v.CurrentTrick = []Play{}
	}
	if v.Table == nil {
		v.Table = []TableEntry{}
	}
	if n := len(s.Tricks); n > 0 {
		last := s.Tricks[n-1]
		v.LastTrick = &last
	}
	v.Players = make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		v.Players[i] = PlayerView{
			ID:          p.ID,
			Name:        p.Name,
			HandCount:   len(p.Hand),
			TrickPoints: p.TrickPoints,
			TotalScore:  p.TotalScore,
			IsBanker:    p.ID == s.BankerID,
			IsFriend:    p.IsFriend && p.IsRevealed,
		}
	}
	return v
}

func (s *State) bottomView() BottomView {
	b := BottomView{Phase: s.BottomPhase, Count: len(s.BottomCards)}
	if s.BottomPhase == BottomRevealed {
		b.Cards = s.BottomCards
	}
	return b
}

// Hand returns the private hand of playerID, or false if not seated.
func (s *State) Hand(playerID string) (HandView, bool) {
	p := s.Player(playerID)
	if p == nil {
		return HandView{}, false
	}
	cards := p.Hand
	if cards == nil {
		cards = []Card{}
	}
	return HandView{PlayerID: p.ID, Cards: cards}, true
}
