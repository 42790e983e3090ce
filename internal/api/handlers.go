package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/sketchroom/backend/internal/ws"
)

type API struct {
	hub     *ws.Hub
	log     zerolog.Logger
	started time.Time
}

func New(hub *ws.Hub, log zerolog.Logger) *API {
	return &API{
		hub:     hub,
		log:     log.With().Str("component", "api").Logger(),
		started: time.Now(),
	}
}

func (a *API) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.log.Error().Err(err).Msg("encoding JSON response failed")
	}
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	a.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	a.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"active_rooms":   a.hub.RoomCount(),
		"active_clients": a.hub.ClientCount(),
		"uptime_seconds": int(time.Since(a.started).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

type RoomResponse struct {
	ID           string `json:"id"`
	Participants int    `json:"participants"`
}

// ListRoomsHandler returns the live rooms with participant counts. Rooms
// exist only while occupied, so there is nothing to page through.
func (a *API) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	active := a.hub.ActiveRooms()

	response := make([]RoomResponse, 0, len(active))
	for id, count := range active {
		response = append(response, RoomResponse{ID: id, Participants: count})
	}
	sort.Slice(response, func(i, j int) bool {
		return response[i].ID < response[j].ID
	})

	a.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms": response,
	})
}
