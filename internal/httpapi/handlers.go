package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Tejsai973973/HandCricket/internal/hub"
	"github.com/Tejsai973973/HandCricket/internal/tournament"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

// GetLobby serves the roster of a lobby that is still filling up.
func GetLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(chi.URLParam(r, "code"))

		reply := make(chan *wire.LobbyView, 1)
		if !h.Send(hub.GetLobby{Code: code, Reply: reply}) {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		view := <-reply
		if view == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}
		writeJSON(w, view)
	}
}

// GetBracket serves the bracket of a running tournament.
func GetBracket(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.ToUpper(chi.URLParam(r, "id"))

		reply := make(chan *tournament.Tournament, 1)
		if !h.Send(hub.GetTournament{ID: id, Reply: reply}) {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		t := <-reply
		if t == nil {
			http.Error(w, "tournament not found", http.StatusNotFound)
			return
		}

		views := make(chan wire.BracketView, 1)
		if !t.Send(tournament.GetBracket{Reply: views}) {
			http.Error(w, "tournament not found", http.StatusNotFound)
			return
		}
		select {
		case v := <-views:
			writeJSON(w, v)
		case <-t.Done():
			http.Error(w, "tournament not found", http.StatusNotFound)
		case <-r.Context().Done():
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
