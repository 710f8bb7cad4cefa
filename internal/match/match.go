package match

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Tejsai973973/HandCricket/internal/engine"
	"github.com/Tejsai973973/HandCricket/internal/types"
)

type Deliverer interface {
	Deliver(notices ...types.Notice)
}

// Reporter receives the result of a tournament-owned match.
type Reporter interface {
	ReportResult(res engine.Result)
}

type Scheduler interface {
	After(d time.Duration, fn func(), tags ...string)
}

type Config struct {
	Out      Deliverer
	Reporter Reporter // nil for room matches
	OnClose  func(matchID string, players []string)
	Sched    Scheduler
	Retain   time.Duration // how long a finished match lingers before shutdown
	Log      *zap.Logger
}

type Msg interface{ isMatchMsg() }

// Kickoff starts the toss.
type Kickoff struct{}

func (Kickoff) isMatchMsg() {}

type FromClient struct {
	From string
	Cmd  engine.Command
}

func (FromClient) isMatchMsg() {}

// Walkover ends the match in favour of whoever did not leave.
type Walkover struct{ Leaver string }

func (Walkover) isMatchMsg() {}

type Shutdown struct{}

func (Shutdown) isMatchMsg() {}

type GetState struct {
	Reply chan engine.State
}

func (GetState) isMatchMsg() {}

type Match struct {
	id       string
	players  []string
	inbox    chan Msg
	state    engine.State
	cfg      Config
	log      *zap.Logger
	finished bool
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, initial engine.State, cfg Config) *Match {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	m := &Match{
		id:      initial.MatchID,
		players: []string{initial.Players[engine.SideA].ID, initial.Players[engine.SideB].ID},
		inbox:   make(chan Msg, 64),
		state:   initial,
		cfg:     cfg,
		log:     cfg.Log.With(zap.String("match", initial.MatchID)),
		ctx:     ctx,
		cancel:  cancel,
	}

	go m.loop()
	return m
}

func (m *Match) ID() string { return m.id }

func (m *Match) Players() []string { return append([]string(nil), m.players...) }

// Send queues msg for the match goroutine. It reports false once the match
// has shut down.
func (m *Match) Send(msg Msg) bool {
	if m.ctx.Err() != nil {
		return false
	}
	select {
	case m.inbox <- msg:
		return true
	case <-m.ctx.Done():
		return false
	}
}

func (m *Match) Done() <-chan struct{} { return m.ctx.Done() }

func (m *Match) loop() {
	for {
		select {
		case <-m.ctx.Done():
			return

		case msg := <-m.inbox:
			switch msg := msg.(type) {
			case Kickoff:
				m.apply("", engine.Command{Type: engine.CmdStartToss})

			case FromClient:
				side, ok := m.state.SideOf(msg.From)
				if !ok {
					break
				}
				msg.Cmd.Side = side
				m.apply(msg.From, msg.Cmd)

			case Walkover:
				side, ok := m.state.SideOf(msg.Leaver)
				if !ok {
					break
				}
				m.apply("", engine.Command{Type: engine.CmdWalkover, Side: side.Other()})

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- m.state

			case Shutdown:
				m.cancel()
				return
			}
		}
	}
}

func (m *Match) apply(from string, cmd engine.Command) {
	notices, next, err := engine.Apply(m.state, cmd)
	if err != nil {
		if engine.IsValidation(err) && from != "" {
			m.cfg.Out.Deliver(types.Error(from, err.Error()))
			return
		}
		m.log.Debug("command ignored", zap.String("cmd", string(cmd.Type)), zap.String("from", from), zap.Error(err))
		return
	}

	m.state = next
	m.log.Debug("command applied",
		zap.String("cmd", string(cmd.Type)),
		zap.String("phase", string(next.Phase)),
		zap.Ints("score", next.Score[:]),
		zap.Ints("wickets", next.Wickets[:]),
	)
	m.cfg.Out.Deliver(notices...)

	if res, ok := m.state.Result(); ok && !m.finished {
		m.finish(res)
	}
}

func (m *Match) finish(res engine.Result) {
	m.finished = true
	m.log.Info("match complete",
		zap.String("winner", res.Winner),
		zap.String("loser", res.Loser),
		zap.Bool("walkover", res.Walkover),
	)

	if m.cfg.Reporter != nil {
		m.cfg.Reporter.ReportResult(res)
	}
	if m.cfg.OnClose != nil {
		m.cfg.OnClose(res.MatchID, m.Players())
	}
	if m.cfg.Sched != nil {
		m.cfg.Sched.After(m.cfg.Retain, func() { m.Send(Shutdown{}) }, "match:"+res.MatchID)
		return
	}
	m.cancel()
}
