// Package tournament runs one elimination bracket as an actor goroutine. It
// owns a bracket.Tournament, spawns a match actor for every pairing of the
// current round and paces rounds with scheduled, cancellable delays.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Tejsai973973/HandCricket/internal/bracket"
	"github.com/Tejsai973973/HandCricket/internal/engine"
	"github.com/Tejsai973973/HandCricket/internal/match"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

// Host is the side of the hub a tournament talks back to.
type Host interface {
	MatchOpened(m *match.Match)
	MatchClosed(matchID string, players []string)
	Release(tournamentID, id string)
	TournamentClosed(tournamentID string, entrants []string)
}

type Scheduler interface {
	After(d time.Duration, fn func(), tags ...string)
	Cancel(tags ...string)
}

type Config struct {
	Out       match.Deliverer
	Host      Host
	Sched     Scheduler
	Settle    time.Duration // bracket on screen before a round's matches start
	TossDelay time.Duration
	Retain    time.Duration
	Log       *zap.Logger
}

type Msg interface{ isTournamentMsg() }

// Start draws round one.
type Start struct{}

type StartRound struct{ Round int }

// Result is a finished match reported by one of the tournament's matches.
type Result struct{ engine.Result }

type Disconnect struct{ ID string }

type GetBracket struct {
	Reply chan wire.BracketView
}

type Shutdown struct{}

func (Start) isTournamentMsg()      {}
func (StartRound) isTournamentMsg() {}
func (Result) isTournamentMsg()     {}
func (Disconnect) isTournamentMsg() {}
func (GetBracket) isTournamentMsg() {}
func (Shutdown) isTournamentMsg()   {}

type Tournament struct {
	id      string
	inbox   chan Msg
	bracket *bracket.Tournament
	matches map[string]*match.Match
	cfg     Config
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, id string, entrants []bracket.Entrant, cfg Config) *Tournament {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	t := &Tournament{
		id:      id,
		inbox:   make(chan Msg, 64),
		bracket: bracket.New(id, entrants),
		matches: make(map[string]*match.Match),
		cfg:     cfg,
		log:     cfg.Log.With(zap.String("tournament", id)),
		ctx:     ctx,
		cancel:  cancel,
	}
	go t.loop()
	return t
}

func (t *Tournament) ID() string { return t.id }

func (t *Tournament) Send(msg Msg) bool {
	if t.ctx.Err() != nil {
		return false
	}
	select {
	case t.inbox <- msg:
		return true
	case <-t.ctx.Done():
		return false
	}
}

func (t *Tournament) Done() <-chan struct{} { return t.ctx.Done() }

// ReportResult lets the tournament act as the reporter of its own matches.
func (t *Tournament) ReportResult(res engine.Result) {
	t.Send(Result{res})
}

func (t *Tournament) tag() string { return "tournament:" + t.id }

func (t *Tournament) loop() {
	for {
		select {
		case <-t.ctx.Done():
			return

		case msg := <-t.inbox:
			switch msg := msg.(type) {
			case Start:
				notices := t.bracket.Start()
				if notices == nil {
					break
				}
				t.log.Info("tournament started", zap.Int("entrants", len(t.bracket.Entrants())))
				t.cfg.Out.Deliver(notices...)
				t.scheduleRound(1)

			case StartRound:
				t.startRound(msg.Round)

			case Result:
				t.record(msg.Result)

			case Disconnect:
				t.disconnect(msg.ID)

			case GetBracket:
				msg.Reply <- t.bracket.View()

			case Shutdown:
				t.close()
				return
			}
		}
	}
}

func (t *Tournament) scheduleRound(round int) {
	t.cfg.Sched.After(t.cfg.Settle, func() {
		t.Send(StartRound{Round: round})
	}, t.tag(), fmt.Sprintf("round:%s:%d", t.id, round))
}

func (t *Tournament) startRound(round int) {
	spawn, walkovers, notices, err := t.bracket.Kickoff(round)
	if err != nil {
		t.log.Debug("round kickoff ignored", zap.Int("round", round), zap.Error(err))
		return
	}
	t.log.Info("round started", zap.Int("round", round), zap.Int("matches", len(spawn)), zap.Int("walkovers", len(walkovers)))
	t.cfg.Out.Deliver(notices...)

	for _, p := range spawn {
		initial := engine.NewMatch(p.MatchID, t.id,
			engine.Player{ID: p.A.ID, Name: p.A.Name},
			engine.Player{ID: p.B.ID, Name: p.B.Name},
		)
		m := match.New(t.ctx, initial, match.Config{
			Out:      t.cfg.Out,
			Reporter: t,
			OnClose:  t.cfg.Host.MatchClosed,
			Sched:    t.cfg.Sched,
			Retain:   t.cfg.Retain,
			Log:      t.cfg.Log,
		})
		t.matches[p.MatchID] = m
		t.cfg.Host.MatchOpened(m)
		t.cfg.Sched.After(t.cfg.TossDelay, func() { m.Send(match.Kickoff{}) }, t.tag())
	}

	for _, w := range walkovers {
		if !t.record(w) {
			return
		}
	}
}

// record feeds one result into the bracket. It reports false once the
// tournament has closed.
func (t *Tournament) record(res engine.Result) bool {
	notices, adv, err := t.bracket.RecordResult(res)
	if err != nil {
		if errors.Is(err, bracket.ErrStaleReport) {
			t.log.Warn("stale result ignored", zap.String("match", res.MatchID), zap.String("winner", res.Winner))
		}
		return true
	}
	delete(t.matches, res.MatchID)
	t.cfg.Out.Deliver(notices...)
	if res.Loser != "" {
		t.cfg.Host.Release(t.id, res.Loser)
	}

	switch {
	case adv.Champion != nil:
		t.log.Info("champion crowned", zap.String("champion", adv.Champion.ID), zap.String("name", adv.Champion.Name))
		t.close()
		return false
	case adv.NextRound > 0:
		t.scheduleRound(adv.NextRound)
	}
	return true
}

func (t *Tournament) disconnect(id string) {
	matchID, playing := t.bracket.Disconnect(id)
	if playing {
		if m, ok := t.matches[matchID]; ok {
			m.Send(match.Walkover{Leaver: id})
		}
	}
	if t.bracket.Abandoned() {
		t.log.Info("tournament abandoned")
		t.close()
	}
}

// close stops pending timers and every match still running, then hands the
// roster back to the host.
func (t *Tournament) close() {
	t.cfg.Sched.Cancel(t.tag())
	t.cancel()
	t.cfg.Host.TournamentClosed(t.id, t.bracket.Entrants())
}
