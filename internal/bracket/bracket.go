// Package bracket holds single-elimination bookkeeping for one tournament:
// pairings per round, results, round completion and the champion. It does
// no I/O and is not safe for concurrent use; the tournament actor owns it.
package bracket

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Tejsai973973/HandCricket/internal/engine"
	"github.com/Tejsai973973/HandCricket/internal/types"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

var ErrStaleReport = errors.New("no open match for reported result")
var ErrRoundStarted = errors.New("round already started or not current")
var ErrFinished = errors.New("tournament finished")

type Entrant struct {
	ID   string
	Name string
}

type Pairing struct {
	MatchID string
	A, B    Entrant
	Winner  string
	Open    bool
}

func (p *Pairing) Has(id string) bool { return p.A.ID == id || p.B.ID == id }

// Opponent returns the other side of the pairing.
func (p *Pairing) Opponent(id string) string {
	if p.A.ID == id {
		return p.B.ID
	}
	return p.A.ID
}

// Advance describes what a recorded result unlocked.
type Advance struct {
	NextRound int      // set when a new round was formed
	Champion  *Entrant // set when the tournament is decided
}

type Tournament struct {
	ID       string
	entrants []Entrant
	rounds   [][]*Pairing
	active   map[string]bool // match IDs still being played
	started  map[int]bool
	departed map[string]bool
	champion *Entrant
}

// Tests replace this to get a deterministic draw.
var shuffle = func(es []Entrant) {
	rand.Shuffle(len(es), func(i, j int) { es[i], es[j] = es[j], es[i] })
}

func New(id string, entrants []Entrant) *Tournament {
	return &Tournament{
		ID:       id,
		entrants: append([]Entrant(nil), entrants...),
		active:   make(map[string]bool),
		started:  make(map[int]bool),
		departed: make(map[string]bool),
	}
}

// Start draws round one and announces the bracket. Calling it twice is a
// no-op.
func (t *Tournament) Start() []types.Notice {
	if len(t.rounds) > 0 {
		return nil
	}
	draw := append([]Entrant(nil), t.entrants...)
	shuffle(draw)
	t.rounds = append(t.rounds, pair(draw))
	return t.broadcast(wire.MsgBracketUpdate, t.View())
}

// Round is the current 1-based round number, 0 before Start.
func (t *Tournament) Round() int { return len(t.rounds) }

func (t *Tournament) Done() bool { return t.champion != nil }

func (t *Tournament) Entrants() []string {
	ids := make([]string, 0, len(t.entrants))
	for _, e := range t.entrants {
		ids = append(ids, e.ID)
	}
	return ids
}

// Kickoff opens every pairing of round. It refuses rounds that are not
// current or were already kicked off, so duplicate timers cannot create
// matches twice. Pairings with a departed participant are returned as
// walkovers instead of matches to spawn; the caller must feed them back
// through RecordResult.
func (t *Tournament) Kickoff(round int) (spawn []Pairing, walkovers []engine.Result, notices []types.Notice, err error) {
	if t.Done() {
		return nil, nil, nil, ErrFinished
	}
	if round != t.Round() || t.started[round] {
		return nil, nil, nil, ErrRoundStarted
	}
	t.started[round] = true

	for i, p := range t.rounds[round-1] {
		p.MatchID = fmt.Sprintf("%s-R%d-M%d", t.ID, round, i)
		p.Open = true
		t.active[p.MatchID] = true

		goneA, goneB := t.departed[p.A.ID], t.departed[p.B.ID]
		if !goneA && !goneB {
			spawn = append(spawn, *p)
			continue
		}
		winner, loser := p.A.ID, p.B.ID
		if goneA && !goneB {
			winner, loser = p.B.ID, p.A.ID
		}
		walkovers = append(walkovers, engine.Result{MatchID: p.MatchID, Winner: winner, Loser: loser, Walkover: true})
		if !t.departed[winner] {
			notices = append(notices,
				types.To(winner, wire.MsgOpponentLeft, nil),
				types.To(winner, wire.MsgMatchOver, wire.MatchOver{
					Outcome:    "win",
					Message:    "Opponent left. YOU WIN by walkover!",
					WinnerName: "YOU",
					Walkover:   true,
				}),
			)
		}
	}
	return spawn, walkovers, notices, nil
}

// RecordResult marks the winner of an open match in the current round and,
// once every match of the round is decided, either crowns the champion or
// forms the next round from the winners in pairing order.
func (t *Tournament) RecordResult(res engine.Result) ([]types.Notice, Advance, error) {
	if t.Done() || t.Round() == 0 {
		return nil, Advance{}, ErrStaleReport
	}

	current := t.rounds[t.Round()-1]
	var match *Pairing
	for _, p := range current {
		if p.Has(res.Winner) && p.Winner == "" && t.active[p.MatchID] {
			match = p
			break
		}
	}
	if match == nil || (res.MatchID != "" && res.MatchID != match.MatchID) {
		return nil, Advance{}, ErrStaleReport
	}
	if res.Loser != "" && match.Opponent(res.Winner) != res.Loser {
		return nil, Advance{}, ErrStaleReport
	}

	match.Winner = res.Winner
	match.Open = false
	delete(t.active, match.MatchID)

	notices := t.broadcast(wire.MsgBracketUpdate, t.View())
	if !t.roundComplete(current) {
		return notices, Advance{}, nil
	}

	winners := make([]Entrant, 0, len(current))
	for _, p := range current {
		winners = append(winners, p.side(p.Winner))
	}

	if len(winners) == 1 {
		champ := winners[0]
		t.champion = &champ
		notices = append(notices, t.broadcast(wire.MsgChampionCrowned, wire.ChampionCrowned{
			TournamentID: t.ID,
			ChampionID:   champ.ID,
			Name:         champ.Name,
		})...)
		return notices, Advance{Champion: &champ}, nil
	}

	t.rounds = append(t.rounds, pair(winners))
	notices = append(notices, t.broadcast(wire.MsgBracketUpdate, t.View())...)
	return notices, Advance{NextRound: t.Round()}, nil
}

// Disconnect records that id is gone. It returns the match ID of the open
// match id was playing in, if any, so the caller can force a walkover.
func (t *Tournament) Disconnect(id string) (string, bool) {
	t.departed[id] = true
	if t.Round() == 0 {
		return "", false
	}
	for _, p := range t.rounds[t.Round()-1] {
		if p.Has(id) && p.Open {
			return p.MatchID, true
		}
	}
	return "", false
}

// Abandoned reports whether every entrant has left.
func (t *Tournament) Abandoned() bool {
	for _, e := range t.entrants {
		if !t.departed[e.ID] {
			return false
		}
	}
	return true
}

// View is the observer projection of the bracket.
func (t *Tournament) View() wire.BracketView {
	v := wire.BracketView{
		TournamentID: t.ID,
		Round:        t.Round(),
		Rounds:       make([][]wire.BracketPairing, 0, len(t.rounds)),
	}
	for _, round := range t.rounds {
		out := make([]wire.BracketPairing, 0, len(round))
		for _, p := range round {
			bp := wire.BracketPairing{
				MatchID: p.MatchID,
				P1:      p.A.ID,
				P1Name:  p.A.Name,
				P2:      p.B.ID,
				P2Name:  p.B.Name,
				Open:    p.Open,
				Status:  wire.PairingPending,
			}
			switch {
			case p.Winner != "":
				bp.Winner = p.Winner
				bp.WinnerName = p.side(p.Winner).Name
				bp.Status = wire.PairingDone
			case p.Open:
				bp.Status = wire.PairingLive
			}
			out = append(out, bp)
		}
		v.Rounds = append(v.Rounds, out)
	}
	if t.champion != nil {
		v.Champion = t.champion.ID
	}
	return v
}

func (t *Tournament) roundComplete(round []*Pairing) bool {
	for _, p := range round {
		if p.Winner == "" || t.active[p.MatchID] {
			return false
		}
	}
	return true
}

func (t *Tournament) broadcast(msgType string, data any) []types.Notice {
	return types.Broadcast(t.Entrants(), msgType, data)
}

func (p *Pairing) side(id string) Entrant {
	if p.A.ID == id {
		return p.A
	}
	return p.B
}

// pair matches consecutive entrants. An odd trailing entrant is dropped;
// lobby sizes are powers of two so this never happens in practice.
func pair(es []Entrant) []*Pairing {
	out := make([]*Pairing, 0, len(es)/2)
	for i := 0; i+1 < len(es); i += 2 {
		out = append(out, &Pairing{A: es[i], B: es[i+1]})
	}
	return out
}
