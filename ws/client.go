package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"findfriends-server/auth"
	"findfriends-server/game"
	"findfriends-server/room"
	"findfriends-server/roomerrors"
	"findfriends-server/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var errBadPayload = errors.New("malformed request payload")

// Client is a middleman between the websocket connection and a room.
// Room, PlayerID and RejoinToken are only touched from ReadPump.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Name   string
	UserID string // set by a successful auth message

	Room        *room.Room
	PlayerID    string
	RejoinToken string
}

// ReadPump pumps messages from the websocket connection to the client's room.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		// Leave before unregistering so the room stops sending to c.Send
		// before the hub closes it.
		c.leaveRoom()
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.log.Warn("websocket read error", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var env InboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	if env.Type == "auth" {
		c.handleAuth(env)
		return
	}
	if c.Hub.Auth.Enabled() && c.UserID == "" {
		c.ack(env, room.Result{}, roomerrors.ErrAuthRequired)
		return
	}

	switch env.Type {
	case "room_create":
		c.handleCreate(env)
	case "room_join":
		c.handleJoin(env)
	case "room_leave":
		c.ack(env, room.Result{}, c.leaveRoom())
	case "room_ready":
		var msg RoomReadyMsg
		if c.decode(env, &msg) {
			c.forward(env, room.Action{Type: room.ActionReady, Ready: msg.Ready})
		}
	case "game_start":
		c.forward(env, room.Action{Type: room.ActionStart})
	case "bid_place":
		var msg BidPlaceMsg
		if c.decode(env, &msg) {
			c.forward(env, room.Action{Type: room.ActionBid, Bid: msg.Bid})
		}
	case "trump_set":
		var msg TrumpSetMsg
		if c.decode(env, &msg) {
			c.forward(env, room.Action{Type: room.ActionSetTrump, Suit: msg.Suit})
		}
	case "friends_declare":
		var msg FriendsDeclareMsg
		if c.decode(env, &msg) {
			c.forward(env, room.Action{Type: room.ActionDeclareFriends, Text: msg.Text})
		}
	case "friends_mark":
		var msg FriendsMarkMsg
		if c.decode(env, &msg) {
			c.forward(env, room.Action{Type: room.ActionMarkFriend, TargetID: msg.TargetID, IsFriend: msg.IsFriend})
		}
	case "bottom_discard":
		var msg BottomDiscardMsg
		if c.decode(env, &msg) {
			c.forward(env, room.Action{Type: room.ActionDiscardBottom, Cards: msg.Cards})
		}
	case "move_play":
		var msg MovePlayMsg
		if c.decode(env, &msg) {
			c.forward(env, room.Action{Type: room.ActionPlay, Cards: msg.Cards})
		}
	case "friends_confirm":
		var msg FriendsConfirmMsg
		if c.decode(env, &msg) {
			c.forward(env, room.Action{Type: room.ActionConfirmFriends, FriendIDs: msg.FriendIDs})
		}
	default:
		c.ack(env, room.Result{}, roomerrors.ErrUnknownRequest)
	}
}

func (c *Client) handleAuth(env InboundEnvelope) {
	if !c.Hub.Auth.Enabled() {
		c.ack(env, room.Result{}, auth.ErrNotConfigured)
		return
	}
	var msg AuthMsg
	if !c.decode(env, &msg) {
		return
	}
	claims, err := c.Hub.Auth.Validate(msg.Token)
	if err != nil {
		c.Hub.log.Debug("auth rejected", "err", err)
		c.ack(env, room.Result{}, roomerrors.ErrAuthRequired)
		return
	}
	c.UserID = auth.UserIDFromClaims(claims)
	if c.UserID == "" {
		c.ack(env, room.Result{}, roomerrors.ErrAuthRequired)
		return
	}
	c.Name = auth.FirstNameFromClaims(claims)
	wsutil.SendJSON(c.Send, AuthOKMsg{Type: "auth_ok", Name: c.Name, UserID: c.UserID})
	c.ack(env, room.Result{}, nil)
}

func (c *Client) handleCreate(env InboundEnvelope) {
	var msg RoomCreateMsg
	if !c.decode(env, &msg) {
		return
	}
	if c.Room != nil {
		c.ack(env, room.Result{}, roomerrors.ErrAlreadyInRoom)
		return
	}
	name, err := c.validName(msg.Name)
	if err != nil {
		c.ack(env, room.Result{}, err)
		return
	}

	r := c.Hub.Rooms.Create()
	c.Hub.log.Info("room created", "room", r.ID, "by", name)
	c.enter(env, r, room.Action{Type: room.ActionJoin, Name: name, UserID: c.UserID, Send: c.Send})
}

func (c *Client) handleJoin(env InboundEnvelope) {
	var msg RoomJoinMsg
	if !c.decode(env, &msg) {
		return
	}
	if c.Room != nil {
		c.ack(env, room.Result{}, roomerrors.ErrAlreadyInRoom)
		return
	}
	r, err := c.Hub.Rooms.Lookup(strings.TrimSpace(msg.RoomID))
	if err != nil {
		c.ack(env, room.Result{}, err)
		return
	}

	if msg.RejoinToken != "" {
		c.enter(env, r, room.Action{Type: room.ActionRejoin, PlayerID: msg.PlayerID, Token: msg.RejoinToken, Send: c.Send})
		return
	}
	name, err := c.validName(msg.Name)
	if err != nil {
		c.ack(env, room.Result{}, err)
		return
	}
	c.enter(env, r, room.Action{Type: room.ActionJoin, Name: name, UserID: c.UserID, Send: c.Send})
}

// enter submits a join or rejoin and, on success, binds the client to r.
func (c *Client) enter(env InboundEnvelope, r *room.Room, a room.Action) {
	res, err := c.submitTo(r, a)
	if err == nil {
		c.Room = r
		c.PlayerID = res.PlayerID
		c.RejoinToken = res.RejoinToken
	}
	c.ack(env, res, err)
}

// leaveRoom releases the client's seat, if any.
func (c *Client) leaveRoom() error {
	if c.Room == nil {
		return roomerrors.ErrNotInRoom
	}
	r := c.Room
	_, err := c.submitTo(r, room.Action{Type: room.ActionLeave, PlayerID: c.PlayerID, Send: c.Send})
	c.Room = nil
	c.PlayerID = ""
	c.RejoinToken = ""
	if errors.Is(err, roomerrors.ErrRoomClosed) {
		return nil
	}
	return err
}

// forward sends a game action to the client's room and acks the outcome.
func (c *Client) forward(env InboundEnvelope, a room.Action) {
	if c.Room == nil {
		c.ack(env, room.Result{}, roomerrors.ErrNotInRoom)
		return
	}
	a.PlayerID = c.PlayerID
	res, err := c.submitTo(c.Room, a)
	if errors.Is(err, roomerrors.ErrRoomClosed) {
		c.Room = nil
		c.PlayerID = ""
	}
	c.ack(env, res, err)
}

func (c *Client) submitTo(r *room.Room, a room.Action) (room.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.Hub.actionTimeout())
	defer cancel()
	res, err := r.Submit(ctx, a)
	if err != nil {
		return res, err
	}
	return res, res.Err
}

// decode unmarshals the request payload into v, acking a failure.
func (c *Client) decode(env InboundEnvelope, v any) bool {
	if err := json.Unmarshal(env.Raw, v); err != nil {
		c.ack(env, room.Result{}, fmt.Errorf("%w: %v", errBadPayload, err))
		return false
	}
	return true
}

func (c *Client) validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" && c.Name != "" {
		name = c.Name
	}
	if n := utf8.RuneCountInString(name); n < 1 || n > c.Hub.Config.MaxNameLength {
		return "", fmt.Errorf("%w: must be between 1 and %d characters", roomerrors.ErrInvalidName, c.Hub.Config.MaxNameLength)
	}
	return name, nil
}

func (c *Client) ack(env InboundEnvelope, res room.Result, err error) {
	msg := AckMsg{
		Type:      "ack",
		RequestID: env.RequestID,
		Request:   env.Type,
		OK:        err == nil,
		Phase:     res.Phase,
	}
	if c.Room != nil {
		msg.RoomID = c.Room.ID
	}
	if err != nil {
		msg.Error = err.Error()
		if kind, ok := game.KindOf(err); ok {
			msg.Kind = kind.String()
		}
	} else {
		msg.PlayerID = res.PlayerID
		msg.RejoinToken = res.RejoinToken
	}
	wsutil.SendJSON(c.Send, msg)
}

func (c *Client) sendError(message string) {
	wsutil.SendJSON(c.Send, ErrorMsg{Type: "error", Message: message})
}
