package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"findfriends-server/auth"
	"findfriends-server/config"
	"findfriends-server/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RoomDirectory defines what the Hub needs from the room store.
type RoomDirectory interface {
	Create() *room.Room
	Lookup(id string) (*room.Room, error)
}

// Hub maintains the set of active clients.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Rooms      RoomDirectory
	Config     *config.Config
	Auth       *auth.Validator // nil when identities are not checked

	done chan struct{}
	log  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, rooms RoomDirectory, validator *auth.Validator) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Rooms:      rooms,
		Config:     cfg,
		Auth:       validator,
		done:       make(chan struct{}),
		log:        slog.Default().With("tag", "ws"),
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and no longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.log.Info("shutdown signal received, stopping")
			return
		case client := <-h.Register:
			h.Clients[client] = true
			h.log.Info("client connected", "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				h.log.Info("client disconnected", "clients", len(h.Clients))
			}
		}
	}
}

func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) actionTimeout() time.Duration {
	if h.Config.ActionTimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(h.Config.ActionTimeoutMS) * time.Millisecond
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	if !h.register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
