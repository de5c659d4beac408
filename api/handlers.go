package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"findfriends-server/auth"
	"findfriends-server/room"
	"findfriends-server/storage"
)

// RoomLister is what the rooms endpoint needs from the room store.
type RoomLister interface {
	List() []room.Summary
}

// Handler holds dependencies for API handlers.
type Handler struct {
	Rooms        RoomLister
	HistoryStore storage.HistoryStore // nil when no database is configured
	Auth         *auth.Validator      // nil when identities are not checked
	log          *slog.Logger
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(rooms RoomLister, history storage.HistoryStore, validator *auth.Validator) *Handler {
	return &Handler{
		Rooms:        rooms,
		HistoryStore: history,
		Auth:         validator,
		log:          slog.Default().With("tag", "api"),
	}
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// extractUserID validates the Authorization header and returns the user ID, or empty string on failure.
func (h *Handler) extractUserID(r *http.Request) string {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return ""
	}
	claims, err := h.Auth.Validate(token)
	if err != nil {
		h.log.Debug("bearer token rejected", "err", err)
		return ""
	}
	return auth.UserIDFromClaims(claims)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("encoding response", "err", err)
	}
}

// ListRooms lists the live rooms, ordered by id.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.Rooms.List())
}

// History returns ledger rows for one room (?room=<id>) or, when identities
// are checked, for the authenticated user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var userID string
	if h.Auth.Enabled() {
		userID = h.extractUserID(r)
		if userID == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}
	}
	roomID := strings.TrimSpace(r.URL.Query().Get("room"))
	if roomID == "" && userID == "" {
		http.Error(w, "room parameter required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list := []storage.RoundResult{}
	if h.HistoryStore != nil {
		var rows []storage.RoundResult
		var err error
		if roomID != "" {
			rows, err = h.HistoryStore.ListByRoom(r.Context(), roomID, limit)
		} else {
			rows, err = h.HistoryStore.ListByUserID(r.Context(), userID, limit)
		}
		if err != nil {
			h.log.Error("loading history", "room", roomID, "user", userID, "err", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		if rows != nil {
			list = rows
		}
	}
	h.writeJSON(w, list)
}
