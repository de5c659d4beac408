package room

import "findfriends-server/game"

// MemberView is the public representation of a room member.
type MemberView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
	Owner     bool   `json:"owner"`
}

// RoomStateMsg is broadcast to every member after each accepted action.
type RoomStateMsg struct {
	Type    string        `json:"type"`
	RoomID  string        `json:"roomId"`
	OwnerID string        `json:"ownerId"`
	Members []MemberView  `json:"members"`
	Game    game.GameView `json:"game"`
}

// HandDealMsg carries a player's private hand.
type HandDealMsg struct {
	Type   string        `json:"type"`
	RoomID string        `json:"roomId"`
	Hand   game.HandView `json:"hand"`
}

// FriendMarksMsg carries the banker's private friend candidates.
type FriendMarksMsg struct {
	Type  string   `json:"type"`
	Marks []string `json:"marks"`
}

// NeedConfirmMsg asks the banker to confirm friends after the last trick.
type NeedConfirmMsg struct {
	Type        string           `json:"type"`
	FriendCount int              `json:"friendCount"`
	Declaration string           `json:"declaration"`
	Marks       []string         `json:"marks"`
	Candidates  []game.PlayerRef `json:"candidates"`
}

// RoundOverMsg announces the settlement of a round.
type RoundOverMsg struct {
	Type       string           `json:"type"`
	RoomID     string           `json:"roomId"`
	Settlement *game.Settlement `json:"settlement"`
	Bottom     []game.Card      `json:"bottom"`
}

// StandingsMsg reports players who reached the win or loss threshold.
type StandingsMsg struct {
	Type    string           `json:"type"`
	Winners []game.PlayerRef `json:"winners"`
	Losers  []game.PlayerRef `json:"losers"`
}

// RoomClosedMsg tells members the room is gone.
type RoomClosedMsg struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

// Summary is the lobby listing entry for a room.
type Summary struct {
	ID        string     `json:"id"`
	Phase     game.Phase `json:"phase"`
	Players   int        `json:"players"`
	Connected int        `json:"connected"`
	RoundNo   int        `json:"roundNo"`
	CreatedAt string     `json:"createdAt"`
}
