package room

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"findfriends-server/game"
	"findfriends-server/roomerrors"
	"findfriends-server/wsutil"
)

// Options configures new rooms.
type Options struct {
	Rules       game.Rules
	Seed        int64         // 0 seeds each room from the clock
	IdleTimeout time.Duration // zero disables closing abandoned rooms
	Recorder    Recorder      // optional
}

// Member is a connection-level view of a seat.
type Member struct {
	ID          string
	Name        string
	UserID      string
	RejoinToken string
	Ready       bool
	Connected   bool
	Send        chan []byte
}

// Room owns one game and serializes every action on it through a single
// goroutine. Nothing but Run touches the game state or the members.
type Room struct {
	ID        string
	CreatedAt time.Time

	Actions chan Action
	Done    chan struct{}

	state    *game.State
	members  map[string]*Member
	ownerID  string
	rng      *rand.Rand
	recorder Recorder
	log      *slog.Logger

	idleTimeout time.Duration
	idleCancel  chan struct{}
	stopped     bool

	quit     chan struct{}
	quitOnce sync.Once

	summaryMu sync.RWMutex
	summary   Summary
}

// New creates a room. Call Run in its own goroutine to start it.
func New(id string, opts Options) *Room {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := time.Now()
	r := &Room{
		ID:          id,
		CreatedAt:   now,
		Actions:     make(chan Action, 64),
		Done:        make(chan struct{}),
		state:       game.NewState(opts.Rules),
		members:     make(map[string]*Member),
		rng:         rand.New(rand.NewSource(seed)),
		recorder:    opts.Recorder,
		log:         slog.Default().With("tag", "room", "room", id),
		idleTimeout: opts.IdleTimeout,
		quit:        make(chan struct{}),
	}
	r.refreshSummary()
	return r
}

// Run is the room loop. It processes actions sequentially until the room is
// closed, emptied, or left idle.
func (r *Room) Run() {
	defer close(r.Done)
	r.log.Info("room opened")
	r.startIdleTimer()

	for {
		select {
		case <-r.quit:
			r.shutdown("closed")
			return
		case a := <-r.Actions:
			res := r.handle(a)
			if a.reply != nil {
				a.reply <- res
			}
			if r.stopped {
				r.log.Info("room finished")
				return
			}
		}
	}
}

// Close stops the room. Safe to call more than once.
func (r *Room) Close() {
	r.quitOnce.Do(func() { close(r.quit) })
}

// Submit sends an action to the room and waits for its result.
func (r *Room) Submit(ctx context.Context, a Action) (Result, error) {
	a.reply = make(chan Result, 1)
	select {
	case r.Actions <- a:
	case <-r.Done:
		return Result{}, roomerrors.ErrRoomClosed
	case <-ctx.Done():
		return Result{}, roomerrors.ErrRoomBusy
	}

	select {
	case res := <-a.reply:
		return res, nil
	case <-r.Done:
		select {
		case res := <-a.reply:
			return res, nil
		default:
			return Result{}, roomerrors.ErrRoomClosed
		}
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Summary returns the latest lobby listing entry. Safe for concurrent use.
func (r *Room) Summary() Summary {
	r.summaryMu.RLock()
	defer r.summaryMu.RUnlock()
	return r.summary
}

func (r *Room) refreshSummary() {
	connected := 0
	for _, m := range r.members {
		if m.Connected {
			connected++
		}
	}
	s := Summary{
		ID:        r.ID,
		Phase:     r.state.Phase,
		Players:   len(r.state.Players),
		Connected: connected,
		RoundNo:   r.state.RoundNo,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
	r.summaryMu.Lock()
	r.summary = s
	r.summaryMu.Unlock()
}

func (r *Room) handle(a Action) Result {
	var res Result
	switch a.Type {
	case ActionJoin:
		res = r.handleJoin(a)
	case ActionRejoin:
		res = r.handleRejoin(a)
	case ActionLeave:
		res.Err = r.handleLeave(a.PlayerID, a.Send)
	case ActionIdleTimeout:
		r.handleIdleTimeout()
	default:
		if r.members[a.PlayerID] == nil {
			res.Err = roomerrors.ErrNotInRoom
			break
		}
		res.PlayerID = a.PlayerID
		res.Err = r.handleGameAction(a)
	}
	res.Phase = r.state.Phase

	if res.Err != nil {
		r.log.Debug("action rejected", "action", a.Type, "player", a.PlayerID, "err", res.Err)
		return res
	}
	if err := r.state.CheckConservation(); err != nil {
		r.log.Error("card conservation violated", "action", a.Type, "player", a.PlayerID, "err", err)
	}
	r.refreshSummary()
	return res
}

func (r *Room) handleJoin(a Action) Result {
	if m := r.memberByUser(a.UserID); m != nil {
		return r.reattach(m, a.Send)
	}
	if r.state.InRound() {
		return Result{Err: game.ErrRoundInProgress}
	}

	id := uuid.NewString()
	if err := r.state.AddPlayer(id, a.Name); err != nil {
		return Result{Err: err}
	}
	m := &Member{
		ID:          id,
		Name:        a.Name,
		UserID:      a.UserID,
		RejoinToken: uuid.NewString(),
		Connected:   true,
		Send:        a.Send,
	}
	r.members[id] = m
	if r.ownerID == "" {
		r.ownerID = id
	}
	r.cancelIdleTimer()
	r.log.Info("player joined", "player", id, "name", a.Name, "seats", len(r.state.Players))

	r.broadcastState()
	return Result{PlayerID: id, RejoinToken: m.RejoinToken}
}

func (r *Room) handleRejoin(a Action) Result {
	m := r.members[a.PlayerID]
	if m == nil || a.Token == "" || m.RejoinToken != a.Token {
		return Result{Err: roomerrors.ErrInvalidToken}
	}
	return r.reattach(m, a.Send)
}

// reattach points a seat at a new connection and re-sends everything that
// player is entitled to see.
func (r *Room) reattach(m *Member, send chan []byte) Result {
	m.Send = send
	m.Connected = true
	r.cancelIdleTimer()
	r.log.Info("player reconnected", "player", m.ID)

	r.broadcastState()
	r.sendHand(m.ID)
	if m.ID == r.state.BankerID {
		r.sendMarks()
		if r.state.Phase == game.PhaseSelectFriends {
			r.sendNeedConfirm()
		}
	}
	return Result{PlayerID: m.ID, RejoinToken: m.RejoinToken}
}

// handleLeave drops a connection. Between rounds the seat is freed; during a
// round it is kept for a rejoin. A leave from a connection the seat has since
// moved away from is ignored.
func (r *Room) handleLeave(playerID string, send chan []byte) error {
	m := r.members[playerID]
	if m == nil {
		return roomerrors.ErrNotInRoom
	}
	if send != nil && m.Send != send {
		return nil
	}
	m.Send = nil
	m.Connected = false

	if !r.state.InRound() {
		if err := r.removeSeat(playerID); err != nil {
			return err
		}
		r.log.Info("player left", "player", playerID, "seats", len(r.state.Players))
		if len(r.members) == 0 {
			r.stopped = true
			r.shutdown("empty")
			return nil
		}
	} else {
		r.log.Info("player disconnected", "player", playerID)
	}

	if r.connectedCount() == 0 {
		r.startIdleTimer()
	}
	r.broadcastState()
	return nil
}

// removeSeat frees a seat between rounds and hands ownership to the first
// remaining seat when the owner goes.
func (r *Room) removeSeat(playerID string) error {
	if err := r.state.RemovePlayer(playerID); err != nil {
		return err
	}
	delete(r.members, playerID)
	if r.ownerID == playerID {
		r.ownerID = ""
		if len(r.state.Players) > 0 {
			r.ownerID = r.state.Players[0].ID
		}
	}
	return nil
}

func (r *Room) handleIdleTimeout() {
	if r.connectedCount() > 0 {
		return
	}
	r.stopped = true
	r.shutdown("idle")
}

func (r *Room) handleGameAction(a Action) error {
	s := r.state
	switch a.Type {
	case ActionReady:
		if s.InRound() {
			return game.ErrRoundInProgress
		}
		r.members[a.PlayerID].Ready = a.Ready

	case ActionStart:
		if err := r.startRound(a.PlayerID); err != nil {
			return err
		}

	case ActionBid:
		if err := s.PlaceBid(a.PlayerID, a.Bid); err != nil {
			return err
		}

	case ActionSetTrump:
		if err := s.SetTrump(a.PlayerID, a.Suit); err != nil {
			return err
		}

	case ActionDeclareFriends:
		if err := s.DeclareFriends(a.PlayerID, a.Text); err != nil {
			return err
		}
		r.sendHand(s.BankerID)
		r.sendMarks()

	case ActionMarkFriend:
		if err := s.MarkFriend(a.PlayerID, a.TargetID, a.IsFriend); err != nil {
			return err
		}
		r.sendMarks()
		return nil

	case ActionDiscardBottom:
		cards, err := game.ParseCards(a.Cards)
		if err != nil {
			return err
		}
		if err := s.DiscardBottom(a.PlayerID, cards); err != nil {
			return err
		}
		r.sendHand(s.BankerID)

	case ActionPlay:
		cards, err := game.ParseCards(a.Cards)
		if err != nil {
			return err
		}
		outcome, err := s.PlayCards(a.PlayerID, cards)
		if err != nil {
			return err
		}
		r.sendHand(a.PlayerID)
		if outcome.Trick != nil {
			r.log.Debug("trick resolved", "trick", outcome.Trick.TrickNo, "winner", outcome.Trick.WinnerID, "points", outcome.Trick.Points)
		}
		if outcome.RoundEnded {
			r.sendNeedConfirm()
		}

	case ActionConfirmFriends:
		st, err := s.ConfirmFriends(a.PlayerID, a.FriendIDs)
		if err != nil {
			return err
		}
		r.finishRound(st)

	default:
		return roomerrors.ErrUnknownRequest
	}

	r.broadcastState()
	return nil
}

func (r *Room) startRound(playerID string) error {
	if playerID != r.ownerID {
		return roomerrors.ErrNotOwner
	}
	if r.state.InRound() {
		return game.ErrRoundInProgress
	}
	for _, m := range r.members {
		if !m.Ready || !m.Connected {
			return roomerrors.ErrNotAllReady
		}
	}
	if err := r.state.StartRound(r.rng); err != nil {
		return err
	}
	for _, m := range r.members {
		m.Ready = false
	}
	r.log.Info("round started", "round", r.state.RoundNo, "players", len(r.state.Players))
	for _, p := range r.state.Players {
		r.sendHand(p.ID)
	}
	return nil
}

func (r *Room) finishRound(st *game.Settlement) {
	r.log.Info("round settled", "round", st.RoundNo, "bid", st.Bid, "success", st.Success,
		"banker_points", st.BankerPoints, "farmer_points", st.FarmerPoints)

	r.broadcast(RoundOverMsg{
		Type:       "round_over",
		RoomID:     r.ID,
		Settlement: st,
		Bottom:     r.state.BottomCards,
	})
	winners, losers := r.state.Standings()
	if len(winners) > 0 || len(losers) > 0 {
		r.broadcast(StandingsMsg{Type: "game_standings", Winners: winners, Losers: losers})
	}
	r.record(st)

	// Seats that dropped during the round are released now; otherwise the
	// table could never start again.
	var dropped []string
	for _, p := range r.state.Players {
		if m := r.members[p.ID]; m != nil && !m.Connected {
			dropped = append(dropped, p.ID)
		}
	}
	for _, id := range dropped {
		if err := r.removeSeat(id); err != nil {
			r.log.Warn("freeing dropped seat", "player", id, "err", err)
			continue
		}
		r.log.Info("player left", "player", id, "seats", len(r.state.Players))
	}
	if len(dropped) > 0 && len(r.members) == 0 {
		r.stopped = true
		r.shutdown("empty")
	}
}

func (r *Room) memberByUser(userID string) *Member {
	if userID == "" {
		return nil
	}
	for _, m := range r.members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

func (r *Room) connectedCount() int {
	n := 0
	for _, m := range r.members {
		if m.Connected {
			n++
		}
	}
	return n
}

// cancelIdleTimer stops a pending idle close. Safe if none is running.
func (r *Room) cancelIdleTimer() {
	if r.idleCancel != nil {
		close(r.idleCancel)
		r.idleCancel = nil
	}
}

// startIdleTimer closes the room after IdleTimeout unless someone connects.
func (r *Room) startIdleTimer() {
	if r.idleTimeout <= 0 {
		return
	}
	r.cancelIdleTimer()
	r.idleCancel = make(chan struct{})
	cancel := r.idleCancel
	limit := r.idleTimeout
	go func() {
		select {
		case <-time.After(limit):
			select {
			case r.Actions <- Action{Type: ActionIdleTimeout}:
			case <-r.Done:
			}
		case <-cancel:
		}
	}()
}

func (r *Room) shutdown(reason string) {
	r.cancelIdleTimer()
	r.broadcast(RoomClosedMsg{Type: "room_closed", RoomID: r.ID, Reason: reason})
	for _, m := range r.members {
		m.Send = nil
		m.Connected = false
	}
	r.refreshSummary()
	r.log.Info("room closed", "reason", reason)
}

func (r *Room) broadcast(msg any) {
	for _, m := range r.members {
		if m.Connected {
			wsutil.SendJSON(m.Send, msg)
		}
	}
}

func (r *Room) send(playerID string, msg any) {
	if m := r.members[playerID]; m != nil && m.Connected {
		wsutil.SendJSON(m.Send, msg)
	}
}

func (r *Room) broadcastState() {
	members := make([]MemberView, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		m := r.members[p.ID]
		members = append(members, MemberView{
			ID:        m.ID,
			Name:      m.Name,
			Ready:     m.Ready,
			Connected: m.Connected,
			Owner:     m.ID == r.ownerID,
		})
	}
	r.broadcast(RoomStateMsg{
		Type:    "room_state",
		RoomID:  r.ID,
		OwnerID: r.ownerID,
		Members: members,
		Game:    r.state.PublicView(),
	})
}

func (r *Room) sendHand(playerID string) {
	if hand, ok := r.state.Hand(playerID); ok {
		r.send(playerID, HandDealMsg{Type: "hand_deal", RoomID: r.ID, Hand: hand})
	}
}

func (r *Room) sendMarks() {
	if r.state.BankerID == "" {
		return
	}
	r.send(r.state.BankerID, FriendMarksMsg{Type: "friends_marks", Marks: r.state.Marks()})
}

func (r *Room) sendNeedConfirm() {
	candidates := make([]game.PlayerRef, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		candidates = append(candidates, game.PlayerRef{ID: p.ID, Name: p.Name})
	}
	r.send(r.state.BankerID, NeedConfirmMsg{
		Type:        "friends_need_confirm",
		FriendCount: r.state.FriendCount,
		Declaration: r.state.FriendDeclaration,
		Marks:       r.state.Marks(),
		Candidates:  candidates,
	})
}
