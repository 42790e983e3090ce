package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sketchroom/backend/internal/config"
	"github.com/sketchroom/backend/internal/ws"
)

// NewRouter wires the websocket endpoint and the read-only HTTP surface.
func NewRouter(hub *ws.Hub, cfg *config.Config, log zerolog.Logger) http.Handler {
	a := New(hub, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, cfg.MessagesPerSecond, cfg.MessageBurst, w, req)
	})

	r.Get("/health", a.HealthHandler)
	r.Get("/api/stats", a.StatsHandler)
	r.Get("/api/rooms", a.ListRoomsHandler)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
