package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"findfriends-server/auth"
	"findfriends-server/game"
	"findfriends-server/room"
	"findfriends-server/storage"
)

type fakeRooms []room.Summary

func (f fakeRooms) List() []room.Summary { return f }

type fakeHistory struct {
	byRoom  map[string][]storage.RoundResult
	err     error
	gotRoom string
	limit   int
}

func (f *fakeHistory) ListByRoom(_ context.Context, roomID string, limit int) ([]storage.RoundResult, error) {
	f.gotRoom = roomID
	f.limit = limit
	return f.byRoom[roomID], f.err
}

func (f *fakeHistory) ListByUserID(context.Context, string, int) ([]storage.RoundResult, error) {
	return nil, f.err
}

func (f *fakeHistory) InsertRoundResult(context.Context, storage.RoundResult) error { return nil }

func (f *fakeHistory) Close() {}

func TestListRooms(t *testing.T) {
	h := NewHandler(fakeRooms{
		{ID: "100001", Phase: game.PhaseLobby, Players: 3, Connected: 3},
		{ID: "100002", Phase: game.PhasePlay, Players: 5, Connected: 4, RoundNo: 2},
	}, nil, nil)

	rec := httptest.NewRecorder()
	h.ListRooms(rec, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []room.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1].Phase != game.PhasePlay || got[1].RoundNo != 2 {
		t.Errorf("unexpected rooms %+v", got)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestListRooms_RejectsPost(t *testing.T) {
	h := NewHandler(fakeRooms{}, nil, nil)
	rec := httptest.NewRecorder()
	h.ListRooms(rec, httptest.NewRequest(http.MethodPost, "/api/rooms", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := NewHandler(fakeRooms{}, nil, nil)
	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodOptions, "/api/history", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHistory_ByRoom(t *testing.T) {
	hist := &fakeHistory{byRoom: map[string][]storage.RoundResult{
		"100001": {{RoomID: "100001", RoundNo: 1, Bid: 130, Success: true}},
	}}
	h := NewHandler(fakeRooms{}, hist, nil)

	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history?room=100001&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if hist.gotRoom != "100001" || hist.limit != 5 {
		t.Errorf("store called with room=%q limit=%d", hist.gotRoom, hist.limit)
	}
	var got []storage.RoundResult
	json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got) != 1 || got[0].Bid != 130 {
		t.Errorf("unexpected rows %+v", got)
	}
}

func TestHistory_EmptyListIsArray(t *testing.T) {
	h := NewHandler(fakeRooms{}, &fakeHistory{}, nil)
	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history?room=999999", nil))

	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected an empty JSON array, got %q", body)
	}
}

func TestHistory_RequiresRoomWithoutAuth(t *testing.T) {
	h := NewHandler(fakeRooms{}, &fakeHistory{}, nil)
	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHistory_RequiresBearerWhenAuthEnabled(t *testing.T) {
	h := NewHandler(fakeRooms{}, &fakeHistory{}, auth.NewValidator("https://auth.example.com"))
	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history?room=100001", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHistory_StoreFailure(t *testing.T) {
	h := NewHandler(fakeRooms{}, &fakeHistory{err: errors.New("connection refused")}, nil)
	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history?room=100001", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
