// Package lobby gathers participants into fixed-size waiting groups that
// turn into tournaments once full. A Manager is owned by the hub goroutine
// and is not safe for concurrent use.
package lobby

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Tejsai973973/HandCricket/internal/codes"
	"github.com/Tejsai973973/HandCricket/internal/types"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

var ErrInvalidSize = errors.New("invalid tournament size")
var ErrNotFound = errors.New("lobby not found")
var ErrFull = errors.New("lobby is full")
var ErrAlreadyMember = errors.New("already in this lobby")

// Sizes are the supported bracket sizes.
var Sizes = []int{4, 8, 16}

const hostLeftReason = "The host left. Lobby closed."

type Lobby struct {
	ID      string
	Size    int
	Host    string
	Members []string
}

type Manager struct {
	lobbies  map[string]*Lobby
	name     func(id string) string
	reserved func(code string) bool
}

// NewManager takes a display-name lookup and a predicate for codes that are
// in use elsewhere (running tournaments keep their lobby code).
func NewManager(name func(string) string, reserved func(string) bool) *Manager {
	if reserved == nil {
		reserved = func(string) bool { return false }
	}
	return &Manager{
		lobbies:  make(map[string]*Lobby),
		name:     name,
		reserved: reserved,
	}
}

func (m *Manager) Create(host string, size int) (*Lobby, []types.Notice, error) {
	if !slices.Contains(Sizes, size) {
		return nil, nil, ErrInvalidSize
	}
	code, err := codes.Unique(codes.LobbyPrefix, func(c string) bool {
		_, ok := m.lobbies[c]
		return ok || m.reserved(c)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("lobby code: %w", err)
	}

	lb := &Lobby{ID: code, Size: size, Host: host, Members: []string{host}}
	m.lobbies[code] = lb

	notices := []types.Notice{types.To(host, wire.MsgLobbyCreated, wire.CodeIssued{Code: code})}
	return lb, append(notices, m.update(lb)...), nil
}

// Join adds id to the lobby. When the lobby reaches capacity it is removed
// and returned as full; the caller starts the tournament with its roster.
func (m *Manager) Join(code, id string) (*Lobby, []types.Notice, error) {
	lb, ok := m.lobbies[code]
	if !ok {
		return nil, nil, ErrNotFound
	}
	if slices.Contains(lb.Members, id) {
		return nil, nil, ErrAlreadyMember
	}
	if len(lb.Members) >= lb.Size {
		return nil, nil, ErrFull
	}

	lb.Members = append(lb.Members, id)
	notices := []types.Notice{types.To(id, wire.MsgLobbyJoined, wire.CodeIssued{Code: code})}
	notices = append(notices, m.update(lb)...)

	if len(lb.Members) == lb.Size {
		delete(m.lobbies, code)
		return lb, notices, nil
	}
	return nil, notices, nil
}

// Leave removes id from the lobby. If the host leaves while others remain
// the lobby is dissolved and the remaining members are returned as evicted.
func (m *Manager) Leave(code, id string) (evicted []string, notices []types.Notice) {
	lb, ok := m.lobbies[code]
	if !ok {
		return nil, nil
	}
	idx := slices.Index(lb.Members, id)
	if idx < 0 {
		return nil, nil
	}
	lb.Members = slices.Delete(lb.Members, idx, idx+1)

	switch {
	case len(lb.Members) == 0:
		delete(m.lobbies, code)
		return nil, nil

	case lb.Host == id:
		delete(m.lobbies, code)
		for _, member := range lb.Members {
			notices = append(notices,
				types.Error(member, hostLeftReason),
				types.To(member, wire.MsgLobbyClosed, wire.CodeIssued{Code: code}),
			)
		}
		return lb.Members, notices

	default:
		return nil, m.update(lb)
	}
}

func (m *Manager) View(code string) (wire.LobbyView, bool) {
	lb, ok := m.lobbies[code]
	if !ok {
		return wire.LobbyView{}, false
	}
	return m.view(lb), true
}

func (m *Manager) Len() int { return len(m.lobbies) }

func (m *Manager) view(lb *Lobby) wire.LobbyView {
	players := make([]wire.Member, 0, len(lb.Members))
	for _, id := range lb.Members {
		players = append(players, wire.Member{ID: id, Name: m.name(id)})
	}
	return wire.LobbyView{
		LobbyID: lb.ID,
		Players: players,
		Count:   len(lb.Members),
		Size:    lb.Size,
		Host:    lb.Host,
	}
}

func (m *Manager) update(lb *Lobby) []types.Notice {
	return types.Broadcast(lb.Members, wire.MsgLobbyUpdate, m.view(lb))
}
