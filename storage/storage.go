package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS round_result (
	id                UUID PRIMARY KEY,
	room_id           TEXT NOT NULL,
	round_no          INT NOT NULL,
	played_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	bid               INT NOT NULL,
	banker_id         TEXT NOT NULL,
	trump_suit        TEXT NOT NULL,
	success           BOOLEAN NOT NULL,
	banker_points     INT NOT NULL,
	farmer_points     INT NOT NULL,
	farmer_target     INT NOT NULL,
	bottom_points     INT NOT NULL,
	bottom_multiplier INT NOT NULL,
	bottom_added      INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_round_result_room ON round_result(room_id, played_at DESC);
CREATE TABLE IF NOT EXISTS round_player (
	round_id     UUID NOT NULL REFERENCES round_result(id),
	seat         SMALLINT NOT NULL,
	player_id    TEXT NOT NULL,
	user_id      TEXT NOT NULL DEFAULT '',
	name         TEXT NOT NULL,
	banker_team  BOOLEAN NOT NULL,
	trick_points INT NOT NULL,
	delta        INT NOT NULL,
	total_score  INT NOT NULL,
	PRIMARY KEY (round_id, seat)
);
CREATE INDEX IF NOT EXISTS idx_round_player_user ON round_player(user_id);
`

// Store is the write-mostly ledger of settled rounds. It is an audit trail
// only; rooms are never rebuilt from it.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the ledger tables exist.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// RoundPlayer is one seat's line in a settled round.
type RoundPlayer struct {
	Seat        int    `json:"seat"`
	PlayerID    string `json:"player_id"`
	UserID      string `json:"user_id,omitempty"`
	Name        string `json:"name"`
	BankerTeam  bool   `json:"banker_team"`
	TrickPoints int    `json:"trick_points"`
	Delta       int    `json:"delta"`
	TotalScore  int    `json:"total_score"`
}

// RoundResult is a settled round as stored in the ledger.
type RoundResult struct {
	ID               string        `json:"id"`
	RoomID           string        `json:"room_id"`
	RoundNo          int           `json:"round_no"`
	PlayedAt         string        `json:"played_at"` // ISO8601
	Bid              int           `json:"bid"`
	BankerID         string        `json:"banker_id"`
	TrumpSuit        string        `json:"trump_suit"`
	Success          bool          `json:"success"`
	BankerPoints     int           `json:"banker_points"`
	FarmerPoints     int           `json:"farmer_points"`
	FarmerTarget     int           `json:"farmer_target"`
	BottomPoints     int           `json:"bottom_points"`
	BottomMultiplier int           `json:"bottom_multiplier"`
	BottomAdded      int           `json:"bottom_added"`
	Players          []RoundPlayer `json:"players"`
}

// normalize fills the generated fields of a result about to be inserted.
func (r *RoundResult) normalize(now time.Time) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.PlayedAt == "" {
		r.PlayedAt = now.UTC().Format(time.RFC3339)
	}
	for i := range r.Players {
		r.Players[i].Seat = i
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}

// InsertRoundResult writes a round and its seats in one transaction.
func (s *Store) InsertRoundResult(ctx context.Context, r RoundResult) error {
	if s == nil || s.pool == nil {
		return nil
	}
	r.normalize(time.Now())
	playedAt, err := time.Parse(time.RFC3339, r.PlayedAt)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO round_result (id, room_id, round_no, played_at, bid, banker_id, trump_suit, success, banker_points, farmer_points, farmer_target, bottom_points, bottom_multiplier, bottom_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		r.ID, r.RoomID, r.RoundNo, playedAt, r.Bid, r.BankerID, r.TrumpSuit, r.Success, r.BankerPoints, r.FarmerPoints, r.FarmerTarget, r.BottomPoints, r.BottomMultiplier, r.BottomAdded)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range r.Players {
		batch.Queue(`
			INSERT INTO round_player (round_id, seat, player_id, user_id, name, banker_team, trick_points, delta, total_score)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			r.ID, p.Seat, p.PlayerID, p.UserID, p.Name, p.BankerTeam, p.TrickPoints, p.Delta, p.TotalScore)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListByRoom returns the most recent rounds of a room, newest first.
func (s *Store) ListByRoom(ctx context.Context, roomID string, limit int) ([]RoundResult, error) {
	if s == nil || s.pool == nil {
		return []RoundResult{}, nil
	}
	return s.listRounds(ctx, `
		SELECT id, room_id, round_no, played_at, bid, banker_id, trump_suit, success, banker_points, farmer_points, farmer_target, bottom_points, bottom_multiplier, bottom_added
		FROM round_result
		WHERE room_id = $1
		ORDER BY played_at DESC
		LIMIT $2`,
		roomID, clampLimit(limit))
}

// ListByUserID returns the most recent rounds the user sat in, newest first.
func (s *Store) ListByUserID(ctx context.Context, userID string, limit int) ([]RoundResult, error) {
	if s == nil || s.pool == nil || userID == "" {
		return []RoundResult{}, nil
	}
	return s.listRounds(ctx, `
		SELECT r.id, r.room_id, r.round_no, r.played_at, r.bid, r.banker_id, r.trump_suit, r.success, r.banker_points, r.farmer_points, r.farmer_target, r.bottom_points, r.bottom_multiplier, r.bottom_added
		FROM round_result r
		JOIN round_player p ON p.round_id = r.id
		WHERE p.user_id = $1
		ORDER BY r.played_at DESC
		LIMIT $2`,
		userID, clampLimit(limit))
}

func (s *Store) listRounds(ctx context.Context, query string, args ...any) ([]RoundResult, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RoundResult{}
	index := make(map[string]int)
	for rows.Next() {
		var r RoundResult
		var playedAt time.Time
		if err := rows.Scan(&r.ID, &r.RoomID, &r.RoundNo, &playedAt, &r.Bid, &r.BankerID, &r.TrumpSuit, &r.Success, &r.BankerPoints, &r.FarmerPoints, &r.FarmerTarget, &r.BottomPoints, &r.BottomMultiplier, &r.BottomAdded); err != nil {
			return nil, err
		}
		r.PlayedAt = playedAt.UTC().Format(time.RFC3339)
		r.Players = []RoundPlayer{}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	prows, err := s.pool.Query(ctx, `
		SELECT round_id, seat, player_id, user_id, name, banker_team, trick_points, delta, total_score
		FROM round_player
		WHERE round_id = ANY($1::uuid[])
		ORDER BY round_id, seat`,
		ids)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var roundID string
		var p RoundPlayer
		if err := prows.Scan(&roundID, &p.Seat, &p.PlayerID, &p.UserID, &p.Name, &p.BankerTeam, &p.TrickPoints, &p.Delta, &p.TotalScore); err != nil {
			return nil, err
		}
		if i, ok := index[roundID]; ok {
			out[i].Players = append(out[i].Players, p)
		}
	}
	return out, prows.Err()
}
