package room

import (
	"context"
	"time"

	"findfriends-server/game"
	"findfriends-server/storage"
)

const recordTimeout = 5 * time.Second

// Recorder receives settled rounds for the audit ledger. *storage.Store
// satisfies it.
type Recorder interface {
	InsertRoundResult(ctx context.Context, r storage.RoundResult) error
}

// roundResult converts a settlement into a ledger row.
func (r *Room) roundResult(st *game.Settlement) storage.RoundResult {
	out := storage.RoundResult{
		RoomID:           r.ID,
		RoundNo:          st.RoundNo,
		Bid:              st.Bid,
		BankerID:         st.BankerID,
		TrumpSuit:        string(st.TrumpSuit),
		Success:          st.Success,
		BankerPoints:     st.BankerPoints,
		FarmerPoints:     st.FarmerPoints,
		FarmerTarget:     st.FarmerTarget,
		BottomPoints:     st.BottomPoints,
		BottomMultiplier: st.BottomMultiplier,
		BottomAdded:      st.BottomPointsAdded,
	}
	for _, fs := range st.FinalScores {
		var userID string
		if m := r.members[fs.ID]; m != nil {
			userID = m.UserID
		}
		out.Players = append(out.Players, storage.RoundPlayer{
			PlayerID:    fs.ID,
			UserID:      userID,
			Name:        fs.Name,
			BankerTeam:  fs.BankerTeam,
			TrickPoints: fs.TrickPoints,
			Delta:       fs.Delta,
			TotalScore:  fs.TotalScore,
		})
	}
	return out
}

// record hands a settlement to the recorder without blocking the room.
func (r *Room) record(st *game.Settlement) {
	if r.recorder == nil {
		return
	}
	row := r.roundResult(st)
	rec := r.recorder
	log := r.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := rec.InsertRoundResult(ctx, row); err != nil {
			log.Error("recording round", "round", row.RoundNo, "err", err)
		}
	}()
}
