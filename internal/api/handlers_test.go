package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchroom/backend/internal/engine"
	"github.com/sketchroom/backend/internal/room"
	"github.com/sketchroom/backend/internal/session"
	"github.com/sketchroom/backend/internal/ws"
)

func setupTestAPI(t *testing.T) (*API, *session.Registry) {
	t.Helper()

	rooms := room.NewRegistry()
	sessions := session.NewRegistry(15)
	hub := ws.NewHub(sessions, zerolog.Nop())
	hub.Bind(engine.New(rooms, sessions, hub, zerolog.Nop()))
	go hub.Run()

	return New(hub, zerolog.Nop()), sessions
}

func TestHealthHandler(t *testing.T) {
	api, _ := setupTestAPI(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	api.HealthHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "ok", response["status"])
}

func TestStatsHandler(t *testing.T) {
	api, sessions := setupTestAPI(t)
	sessions.Register("c1", "Alice", "#f00", "r1")

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()

	api.StatsHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(1), response["active_rooms"])
}

func TestListRoomsHandler(t *testing.T) {
	api, sessions := setupTestAPI(t)
	sessions.Register("c1", "Alice", "#f00", "r1")
	sessions.Register("c2", "Bob", "#0f0", "r1")
	sessions.Register("c3", "Carol", "#00f", "r2")

	req := httptest.NewRequest("GET", "/api/rooms", nil)
	w := httptest.NewRecorder()

	api.ListRoomsHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Rooms []RoomResponse `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Rooms, 2)
	assert.Equal(t, RoomResponse{ID: "r1", Participants: 2}, response.Rooms[0])
	assert.Equal(t, RoomResponse{ID: "r2", Participants: 1}, response.Rooms[1])
}

func TestListRoomsEmpty(t *testing.T) {
	api, _ := setupTestAPI(t)

	req := httptest.NewRequest("GET", "/api/rooms", nil)
	w := httptest.NewRecorder()

	api.ListRoomsHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rooms":[]}`, w.Body.String())
}
