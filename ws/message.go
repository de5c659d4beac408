package ws

import (
	"encoding/json"

	"findfriends-server/game"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId"`
	Raw       json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type head struct {
		Type      string `json:"type"`
		RequestID string `json:"requestId"`
	}
	var h head
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	e.Type = h.Type
	e.RequestID = h.RequestID
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// AuthMsg is sent by the client as the first message when the server checks identities.
type AuthMsg struct {
	Token string `json:"token"`
}

// RoomCreateMsg opens a new room and seats the sender in it.
type RoomCreateMsg struct {
	Name string `json:"name"`
}

// RoomJoinMsg seats the sender in an existing room. PlayerID and RejoinToken
// are set when reclaiming a seat after a reconnect.
type RoomJoinMsg struct {
	RoomID      string `json:"roomId"`
	Name        string `json:"name"`
	PlayerID    string `json:"playerId,omitempty"`
	RejoinToken string `json:"rejoinToken,omitempty"`
}

// RoomReadyMsg toggles the sender's ready flag.
type RoomReadyMsg struct {
	Ready bool `json:"ready"`
}

// BidPlaceMsg carries a bid; 0 passes.
type BidPlaceMsg struct {
	Bid int `json:"bid"`
}

// TrumpSetMsg names the trump suit.
type TrumpSetMsg struct {
	Suit string `json:"suit"`
}

// FriendsDeclareMsg carries the banker's free-text friend hint.
type FriendsDeclareMsg struct {
	Text string `json:"text"`
}

// FriendsMarkMsg adds or removes a private friend candidate.
type FriendsMarkMsg struct {
	TargetID string `json:"targetId"`
	IsFriend bool   `json:"isFriend"`
}

// BottomDiscardMsg lists the card ids the banker puts back.
type BottomDiscardMsg struct {
	Cards []string `json:"cards"`
}

// MovePlayMsg lists the card ids played to the current trick.
type MovePlayMsg struct {
	Cards []string `json:"cards"`
}

// FriendsConfirmMsg lists the players the banker confirms as friends.
type FriendsConfirmMsg struct {
	FriendIDs []string `json:"friendIds"`
}

// --- Server-to-Client messages ---

// AckMsg answers every request. Error and Kind are set only when OK is false.
type AckMsg struct {
	Type        string     `json:"type"`
	RequestID   string     `json:"requestId,omitempty"`
	Request     string     `json:"request"`
	OK          bool       `json:"ok"`
	Error       string     `json:"error,omitempty"`
	Kind        string     `json:"kind,omitempty"`
	Phase       game.Phase `json:"phase,omitempty"`
	RoomID      string     `json:"roomId,omitempty"`
	PlayerID    string     `json:"playerId,omitempty"`
	RejoinToken string     `json:"rejoinToken,omitempty"`
}

// AuthOKMsg confirms a successful auth message.
type AuthOKMsg struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// ErrorMsg is sent when a message cannot be routed at all.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
