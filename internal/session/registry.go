// Package session tracks connected participants and what each one is
// currently attached to. A Registry is not safe for concurrent use; the hub
// goroutine owns it.
package session

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLen = 2
	MaxNameLen = 15
)

var ErrInvalidName = errors.New("display name must be 2-15 characters")

type Participant struct {
	ID           string
	Name         string
	MatchID      string
	LobbyID      string
	TournamentID string
	RoomCode     string // open room waiting for an opponent
}

// DisplayName falls back to a name derived from the identity token.
func (p *Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return DefaultName(p.ID)
}

// Busy reports whether p is committed to a match, lobby or live tournament.
func (p *Participant) Busy() bool {
	return p.MatchID != "" || p.LobbyID != "" || p.TournamentID != ""
}

func DefaultName(id string) string {
	if len(id) > 5 {
		id = id[:5]
	}
	return "Player " + id
}

func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinNameLen || n > MaxNameLen {
		return "", ErrInvalidName
	}
	return name, nil
}

type Registry struct {
	participants map[string]*Participant
}

func NewRegistry() *Registry {
	return &Registry{participants: make(map[string]*Participant)}
}

func (r *Registry) Add(id string) *Participant {
	if p, ok := r.participants[id]; ok {
		return p
	}
	p := &Participant{ID: id}
	r.participants[id] = p
	return p
}

func (r *Registry) Get(id string) (*Participant, bool) {
	p, ok := r.participants[id]
	return p, ok
}

func (r *Registry) Remove(id string) (*Participant, bool) {
	p, ok := r.participants[id]
	if ok {
		delete(r.participants, id)
	}
	return p, ok
}

func (r *Registry) Len() int { return len(r.participants) }

// Name returns the display name for id, or the derived default when id is
// not (or no longer) registered.
func (r *Registry) Name(id string) string {
	if p, ok := r.participants[id]; ok {
		return p.DisplayName()
	}
	return DefaultName(id)
}

func (r *Registry) SetName(id, name string) (string, error) {
	p, ok := r.participants[id]
	if !ok {
		return "", ErrInvalidName
	}
	clean, err := ValidateName(name)
	if err != nil {
		return "", err
	}
	p.Name = clean
	return clean, nil
}

// The Bind* methods silently skip identities that already disconnected.

func (r *Registry) BindMatch(id, matchID string) {
	if p, ok := r.participants[id]; ok {
		p.MatchID = matchID
	}
}

// UnbindMatch clears the match reference only if it still points at matchID.
func (r *Registry) UnbindMatch(id, matchID string) {
	if p, ok := r.participants[id]; ok && p.MatchID == matchID {
		p.MatchID = ""
	}
}

func (r *Registry) BindLobby(id, lobbyID string) {
	if p, ok := r.participants[id]; ok {
		p.LobbyID = lobbyID
	}
}

func (r *Registry) UnbindLobby(id, lobbyID string) {
	if p, ok := r.participants[id]; ok && p.LobbyID == lobbyID {
		p.LobbyID = ""
	}
}

func (r *Registry) BindTournament(id, tournamentID string) {
	if p, ok := r.participants[id]; ok {
		p.TournamentID = tournamentID
	}
}

func (r *Registry) UnbindTournament(id, tournamentID string) {
	if p, ok := r.participants[id]; ok && p.TournamentID == tournamentID {
		p.TournamentID = ""
	}
}
