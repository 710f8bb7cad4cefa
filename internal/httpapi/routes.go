package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tejsai973973/HandCricket/internal/hub"
	"github.com/Tejsai973973/HandCricket/internal/ws"
)

func SetupRoutes(h *hub.Hub, opts ws.Options) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, opts))
	r.Get("/lobbies/{code}", GetLobby(h))
	r.Get("/tournaments/{id}", GetBracket(h))
	return r
}
