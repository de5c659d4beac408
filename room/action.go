package room

import "findfriends-server/game"

// ActionType enumerates the kinds of actions a room can process.
type ActionType int

const (
	ActionJoin ActionType = iota
	ActionRejoin
	ActionLeave
	ActionReady
	ActionStart
	ActionBid
	ActionSetTrump
	ActionDeclareFriends
	ActionMarkFriend
	ActionDiscardBottom
	ActionPlay
	ActionConfirmFriends
	ActionIdleTimeout // internal: fired when nobody has been connected for the idle window
)

// String returns the name used in logs.
func (t ActionType) String() string {
	switch t {
	case ActionJoin:
		return "join"
	case ActionRejoin:
		return "rejoin"
	case ActionLeave:
		return "leave"
	case ActionReady:
		return "ready"
	case ActionStart:
		return "start"
	case ActionBid:
		return "bid"
	case ActionSetTrump:
		return "set_trump"
	case ActionDeclareFriends:
		return "declare_friends"
	case ActionMarkFriend:
		return "mark_friend"
	case ActionDiscardBottom:
		return "discard_bottom"
	case ActionPlay:
		return "play"
	case ActionConfirmFriends:
		return "confirm_friends"
	case ActionIdleTimeout:
		return "idle_timeout"
	default:
		return "unknown"
	}
}

// Action is a request sent into a room's action channel. Only the fields
// relevant to Type are read.
type Action struct {
	Type     ActionType
	PlayerID string

	Name   string      // join
	UserID string      // join; empty when auth is off
	Token  string      // rejoin
	Send   chan []byte // join, rejoin: where this player's messages go

	Ready     bool     // ready
	Bid       int      // bid
	Suit      string   // set_trump
	Text      string   // declare_friends
	TargetID  string   // mark_friend
	IsFriend  bool     // mark_friend
	Cards     []string // discard_bottom, play
	FriendIDs []string // confirm_friends

	reply chan Result
}

// Result is the room's answer to a submitted action.
type Result struct {
	PlayerID    string
	RejoinToken string
	Phase       game.Phase
	Err         error
}
