package game

// PlayOutcome describes what an accepted play caused.
type PlayOutcome struct {
	Trick      *TrickResult // set when the play completed a trick
	RoundEnded bool         // set when the completed trick emptied every hand
}

// PlayCards validates and applies a play by the player whose turn it is.
func (s *State) PlayCards(playerID string, cards []Card) (PlayOutcome, error) {
	if err := s.requirePhase(PhasePlay); err != nil {
		return PlayOutcome{}, err
	}
	if playerID != s.TurnID {
		return PlayOutcome{}, ErrNotYourTurn
	}
	p := s.Player(playerID)
	if p == nil {
		return PlayOutcome{}, ErrUnknownPlayer
	}

	var lead []Card
	if len(s.CurrentTrick) > 0 {
		lead = s.CurrentTrick[0].Cards
	}
	if err := ValidatePlay(p.Hand, lead, cards, s.TrumpSuit); err != nil {
		return PlayOutcome{}, err
	}

	played := append([]Card(nil), cards...)
	p.Hand = removeCards(p.Hand, played)
	s.CurrentTrick = append(s.CurrentTrick, Play{PlayerID: p.ID, Cards: played})
	s.Table = append(s.Table, TableEntry{TrickNo: s.TrickNo, PlayerID: p.ID, Cards: played})
	s.TurnID = s.nextSeat(p.ID).ID

	if len(s.CurrentTrick) < len(s.Players) {
		return PlayOutcome{}, nil
	}
	return s.finishTrick(), nil
}

// finishTrick resolves the full current trick, credits its points, and either
// hands the lead to the winner or ends the round.
func (s *State) finishTrick() PlayOutcome {
	plays := s.CurrentTrick
	bestIdx := ResolveTrick(plays, s.TrumpSuit)
	winner := s.Player(plays[bestIdx].PlayerID)

	result := TrickResult{
		TrickNo:  s.TrickNo,
		WinnerID: winner.ID,
		Plays:    plays,
		Points:   trickPoints(plays),
	}
	winner.TrickPoints += result.Points
	s.Tricks = append(s.Tricks, result)

	s.TurnID = winner.ID
	s.TrickNo++
	s.CurrentTrick = nil

	for _, p := range s.Players {
		if len(p.Hand) > 0 {
			return PlayOutcome{Trick: &result}
		}
	}
	s.awardBottom(winner, isPairPlay(plays[bestIdx]))
	return PlayOutcome{Trick: &result, RoundEnded: true}
}
