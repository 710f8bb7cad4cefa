package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Tejsai973973/HandCricket/internal/dispatch"
	"github.com/Tejsai973973/HandCricket/internal/lobby"
	"github.com/Tejsai973973/HandCricket/internal/match"
	"github.com/Tejsai973973/HandCricket/internal/session"
	"github.com/Tejsai973973/HandCricket/internal/tournament"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

type HubMsg interface{ isHubMsg() }

type Connect struct {
	ID     string
	Outbox chan wire.ServerMessage
}

type Disconnect struct {
	ID string
}

type FromClient struct {
	ID  string
	Msg wire.ClientMessage
}

type MatchOpened struct {
	Match *match.Match
}

type MatchClosed struct {
	MatchID string
	Players []string
}

// Release frees an eliminated participant from their tournament.
type Release struct {
	TournamentID string
	ID           string
}

type TournamentClosed struct {
	TournamentID string
	Entrants     []string
}

type GetLobby struct {
	Code  string
	Reply chan *wire.LobbyView // nil when unknown
}

type GetTournament struct {
	ID    string
	Reply chan *tournament.Tournament // May be nil
}

// GetParticipant is test-only: it replies with a copy of the registry entry.
type GetParticipant struct {
	ID    string
	Reply chan *session.Participant
}

type ShutdownHub struct{}

func (Connect) isHubMsg()          {}
func (Disconnect) isHubMsg()       {}
func (FromClient) isHubMsg()       {}
func (MatchOpened) isHubMsg()      {}
func (MatchClosed) isHubMsg()      {}
func (Release) isHubMsg()          {}
func (TournamentClosed) isHubMsg() {}
func (GetLobby) isHubMsg()         {}
func (GetTournament) isHubMsg()    {}
func (GetParticipant) isHubMsg()   {}
func (ShutdownHub) isHubMsg()      {}

type Config struct {
	Sched     tournament.Scheduler
	Settle    time.Duration
	TossDelay time.Duration
	Retain    time.Duration
	Log       *zap.Logger
}

// Hub owns every piece of shared state: who is connected, open rooms,
// lobbies, and the running matches and tournaments. All of it is touched
// only from the hub goroutine.
type Hub struct {
	inbox       chan HubMsg
	out         *dispatch.Dispatcher
	reg         *session.Registry
	rooms       map[string]string // room code -> creator
	lobbies     *lobby.Manager
	matches     map[string]*match.Match
	tournaments map[string]*tournament.Tournament
	cfg         Config
	log         *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewHub(parent context.Context, out *dispatch.Dispatcher, cfg Config) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	h := &Hub{
		inbox:       make(chan HubMsg, 256),
		out:         out,
		reg:         session.NewRegistry(),
		rooms:       make(map[string]string),
		matches:     make(map[string]*match.Match),
		tournaments: make(map[string]*tournament.Tournament),
		cfg:         cfg,
		log:         cfg.Log,
		ctx:         ctx,
		cancel:      cancel,
	}
	// Running tournaments keep their lobby code as ID.
	h.lobbies = lobby.NewManager(h.reg.Name, func(code string) bool {
		_, ok := h.tournaments[code]
		return ok
	})

	go h.loop()
	return h
}

// Send queues msg for the hub. It reports false after shutdown.
func (h *Hub) Send(msg HubMsg) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- msg:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// The hub is the host of every tournament and the close hook of every match.

func (h *Hub) MatchOpened(m *match.Match) { h.Send(MatchOpened{Match: m}) }

func (h *Hub) MatchClosed(matchID string, players []string) {
	h.Send(MatchClosed{MatchID: matchID, Players: players})
}

func (h *Hub) Release(tournamentID, id string) {
	h.Send(Release{TournamentID: tournamentID, ID: id})
}

func (h *Hub) TournamentClosed(tournamentID string, entrants []string) {
	h.Send(TournamentClosed{TournamentID: tournamentID, Entrants: entrants})
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Connect:
				h.out.Register(msg.ID, msg.Outbox)
				h.reg.Add(msg.ID)
				h.log.Info("participant connected", zap.String("conn", msg.ID), zap.Int("online", h.reg.Len()))

			case Disconnect:
				h.disconnect(msg.ID)

			case FromClient:
				h.handle(msg.ID, msg.Msg)

			case MatchOpened:
				h.openMatch(msg.Match)

			case MatchClosed:
				h.closeMatch(msg.MatchID, msg.Players)

			case Release:
				h.reg.UnbindTournament(msg.ID, msg.TournamentID)

			case TournamentClosed:
				delete(h.tournaments, msg.TournamentID)
				for _, id := range msg.Entrants {
					h.reg.UnbindTournament(id, msg.TournamentID)
				}
				h.pruneMatches()
				h.log.Info("tournament closed", zap.String("tournament", msg.TournamentID))

			case GetLobby:
				view, ok := h.lobbies.View(msg.Code)
				if !ok {
					msg.Reply <- nil
					break
				}
				msg.Reply <- &view

			case GetTournament:
				msg.Reply <- h.tournaments[msg.ID] // May be nil

			case GetParticipant:
				p, ok := h.reg.Get(msg.ID)
				if !ok {
					msg.Reply <- nil
					break
				}
				cp := *p
				msg.Reply <- &cp

			case ShutdownHub:
				// Matches and tournaments run under the hub context.
				clear(h.matches)
				clear(h.tournaments)
				h.cancel()
			}
		}
	}
}

func (h *Hub) openMatch(m *match.Match) {
	h.matches[m.ID()] = m
	for _, id := range m.Players() {
		h.reg.BindMatch(id, m.ID())
	}
}

func (h *Hub) closeMatch(matchID string, players []string) {
	delete(h.matches, matchID)
	for _, id := range players {
		h.reg.UnbindMatch(id, matchID)
	}
}

// pruneMatches forgets matches that were stopped along with their
// tournament without ever reporting a close.
func (h *Hub) pruneMatches() {
	for id, m := range h.matches {
		select {
		case <-m.Done():
			h.closeMatch(id, m.Players())
		default:
		}
	}
}

func (h *Hub) disconnect(id string) {
	defer h.out.Unregister(id)

	p, ok := h.reg.Get(id)
	if !ok {
		return
	}
	log := h.log.With(zap.String("conn", id))

	if p.RoomCode != "" && h.rooms[p.RoomCode] == id {
		delete(h.rooms, p.RoomCode)
		log.Debug("open room discarded", zap.String("room", p.RoomCode))
	}
	if p.LobbyID != "" {
		h.leaveLobby(id, p.LobbyID)
	}

	switch {
	case p.TournamentID != "":
		if t, ok := h.tournaments[p.TournamentID]; ok {
			t.Send(tournament.Disconnect{ID: id})
		}
	case p.MatchID != "":
		if m, ok := h.matches[p.MatchID]; ok {
			m.Send(match.Walkover{Leaver: id})
		}
	}

	h.reg.Remove(id)
	log.Info("participant disconnected", zap.Int("online", h.reg.Len()))
}
