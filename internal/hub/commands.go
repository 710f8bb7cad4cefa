package hub

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Tejsai973973/HandCricket/internal/bracket"
	"github.com/Tejsai973973/HandCricket/internal/codes"
	"github.com/Tejsai973973/HandCricket/internal/engine"
	"github.com/Tejsai973973/HandCricket/internal/lobby"
	"github.com/Tejsai973973/HandCricket/internal/match"
	"github.com/Tejsai973973/HandCricket/internal/session"
	"github.com/Tejsai973973/HandCricket/internal/tournament"
	"github.com/Tejsai973973/HandCricket/internal/types"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

const (
	reasonRoomNotFound  = "Room not found."
	reasonLobbyNotFound = "Lobby not found."
	reasonLobbyFull     = "Lobby is full."
	reasonGameNotFound  = "Game not found. Please restart."
	reasonBadSize       = "Tournament size must be 4, 8 or 16."
	reasonBadName       = "Display name must be 2-15 characters."
	reasonBusy          = "Finish your current game or lobby first."
	reasonUnknown       = "Unknown message type."
	reasonInternal      = "Something went wrong. Please try again."
)

func (h *Hub) handle(id string, cm wire.ClientMessage) {
	p, ok := h.reg.Get(id)
	if !ok {
		return
	}

	switch cm.Type {
	case wire.CmdSetIdentity:
		name, err := h.reg.SetName(id, cm.Name)
		if err != nil {
			h.out.Deliver(types.Error(id, reasonBadName))
			return
		}
		h.out.Deliver(types.To(id, wire.MsgIdentitySet, wire.IdentitySet{ID: id, Name: name}))

	case wire.CmdCreateRoom:
		h.createRoom(p)

	case wire.CmdJoinRoom:
		h.joinRoom(p, normalizeCode(cm.Code))

	case wire.CmdCreateLobby:
		h.createLobby(p, cm.Size)

	case wire.CmdJoinLobby:
		h.joinLobby(p, normalizeCode(cm.Code))

	case wire.CmdLeaveLobby:
		if p.LobbyID != "" {
			h.leaveLobby(id, p.LobbyID)
		}

	case wire.CmdTossCall, wire.CmdBatBowlChoice, wire.CmdThrow:
		cmd, _ := toEngineCommand(cm)
		m, ok := h.matches[p.MatchID]
		if p.MatchID == "" || !ok {
			h.out.Deliver(types.Error(id, reasonGameNotFound))
			return
		}
		m.Send(match.FromClient{From: id, Cmd: cmd})

	default:
		h.out.Deliver(types.Error(id, reasonUnknown))
	}
}

func toEngineCommand(m wire.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case wire.CmdTossCall:
		return engine.Command{Type: engine.CmdTossCall, Call: m.Call}, true
	case wire.CmdBatBowlChoice:
		return engine.Command{Type: engine.CmdBatBowl, Choice: m.Choice}, true
	case wire.CmdThrow:
		return engine.Command{Type: engine.CmdThrow, Value: m.Value}, true
	default:
		return engine.Command{}, false
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// createRoom opens a direct 1v1 slot. A participant holds at most one open
// room; a new one replaces the old.
func (h *Hub) createRoom(p *session.Participant) {
	if p.Busy() {
		h.out.Deliver(types.Error(p.ID, reasonBusy))
		return
	}
	h.dropRoom(p)

	code, err := codes.Unique("", func(c string) bool {
		_, open := h.rooms[c]
		_, playing := h.matches[c]
		return open || playing
	})
	if err != nil {
		h.log.Error("room code", zap.Error(err))
		h.out.Deliver(types.Error(p.ID, reasonInternal))
		return
	}

	h.rooms[code] = p.ID
	p.RoomCode = code
	h.log.Info("room created", zap.String("room", code), zap.String("conn", p.ID))
	h.out.Deliver(types.To(p.ID, wire.MsgRoomCreated, wire.CodeIssued{Code: code}))
}

func (h *Hub) joinRoom(p *session.Participant, code string) {
	creatorID, ok := h.rooms[code]
	if !ok {
		h.out.Deliver(types.Error(p.ID, reasonRoomNotFound))
		return
	}
	if creatorID == p.ID {
		return
	}
	if p.Busy() {
		h.out.Deliver(types.Error(p.ID, reasonBusy))
		return
	}
	creator, ok := h.reg.Get(creatorID)
	if !ok {
		delete(h.rooms, code)
		h.out.Deliver(types.Error(p.ID, reasonRoomNotFound))
		return
	}

	delete(h.rooms, code)
	creator.RoomCode = ""
	h.dropRoom(p)

	initial := engine.NewMatch(code, "",
		engine.Player{ID: creator.ID, Name: creator.DisplayName()},
		engine.Player{ID: p.ID, Name: p.DisplayName()},
	)
	m := match.New(h.ctx, initial, match.Config{
		Out:     h.out,
		OnClose: h.MatchClosed,
		Sched:   h.cfg.Sched,
		Retain:  h.cfg.Retain,
		Log:     h.log,
	})
	h.openMatch(m)
	h.log.Info("room match started", zap.String("match", code))
	m.Send(match.Kickoff{})
}

func (h *Hub) dropRoom(p *session.Participant) {
	if p.RoomCode == "" {
		return
	}
	if h.rooms[p.RoomCode] == p.ID {
		delete(h.rooms, p.RoomCode)
	}
	p.RoomCode = ""
}

func (h *Hub) createLobby(p *session.Participant, size int) {
	if p.Busy() {
		h.out.Deliver(types.Error(p.ID, reasonBusy))
		return
	}
	lb, notices, err := h.lobbies.Create(p.ID, size)
	switch {
	case errors.Is(err, lobby.ErrInvalidSize):
		h.out.Deliver(types.Error(p.ID, reasonBadSize))
		return
	case err != nil:
		h.log.Error("create lobby", zap.Error(err))
		h.out.Deliver(types.Error(p.ID, reasonInternal))
		return
	}

	h.dropRoom(p)
	h.reg.BindLobby(p.ID, lb.ID)
	h.log.Info("lobby created", zap.String("lobby", lb.ID), zap.Int("size", lb.Size), zap.String("host", p.ID))
	h.out.Deliver(notices...)
}

func (h *Hub) joinLobby(p *session.Participant, code string) {
	if p.LobbyID == code {
		return
	}
	if p.Busy() {
		h.out.Deliver(types.Error(p.ID, reasonBusy))
		return
	}

	full, notices, err := h.lobbies.Join(code, p.ID)
	switch {
	case errors.Is(err, lobby.ErrNotFound):
		h.out.Deliver(types.Error(p.ID, reasonLobbyNotFound))
		return
	case errors.Is(err, lobby.ErrFull):
		h.out.Deliver(types.Error(p.ID, reasonLobbyFull))
		return
	case err != nil:
		return
	}

	h.dropRoom(p)
	h.reg.BindLobby(p.ID, code)
	h.out.Deliver(notices...)
	if full != nil {
		h.startTournament(full)
	}
}

func (h *Hub) leaveLobby(id, code string) {
	evicted, notices := h.lobbies.Leave(code, id)
	h.reg.UnbindLobby(id, code)
	for _, e := range evicted {
		h.reg.UnbindLobby(e, code)
	}
	if len(evicted) > 0 {
		h.log.Info("lobby closed by host", zap.String("lobby", code), zap.Int("evicted", len(evicted)))
	}
	h.out.Deliver(notices...)
}

func (h *Hub) startTournament(lb *lobby.Lobby) {
	entrants := make([]bracket.Entrant, 0, len(lb.Members))
	for _, id := range lb.Members {
		entrants = append(entrants, bracket.Entrant{ID: id, Name: h.reg.Name(id)})
		h.reg.UnbindLobby(id, lb.ID)
		h.reg.BindTournament(id, lb.ID)
	}

	t := tournament.New(h.ctx, lb.ID, entrants, tournament.Config{
		Out:       h.out,
		Host:      h,
		Sched:     h.cfg.Sched,
		Settle:    h.cfg.Settle,
		TossDelay: h.cfg.TossDelay,
		Retain:    h.cfg.Retain,
		Log:       h.log,
	})
	h.tournaments[lb.ID] = t
	h.log.Info("tournament created", zap.String("tournament", lb.ID), zap.Int("entrants", len(entrants)))
	t.Send(tournament.Start{})
}
