package engine

import (
	"errors"
	"fmt"

	"github.com/Tejsai973973/HandCricket/internal/types"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

// Validation errors are reported back to the submitter.
var ErrInvalidThrow = errors.New("invalid throw: must be between 1 and 6")
var ErrInvalidCall = errors.New("invalid toss call: must be Heads or Tails")
var ErrInvalidChoice = errors.New("invalid choice: must be Bat or Bowl")

// Protocol violations are dropped without telling anyone.
var ErrNotEntitled = errors.New("side not entitled to act")
var ErrWrongPhase = errors.New("action not valid in current phase")
var ErrMatchComplete = errors.New("match already complete")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) Other() Side { return 1 - s }

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

type Phase string

const (
	PhaseCreated      Phase = "created"
	PhaseAwaitingToss Phase = "awaiting_toss"
	PhaseBatBowl      Phase = "bat_bowl_choice"
	PhaseInnings1     Phase = "innings1"
	PhaseInningsBreak Phase = "innings_break"
	PhaseInnings2     Phase = "innings2"
	PhaseComplete     Phase = "complete"
)

type Player struct {
	ID   string
	Name string
}

// State is a value: Apply never mutates its input.
type State struct {
	MatchID      string
	TournamentID string
	Players      [2]Player
	Phase        Phase

	Score   [2]int
	Wickets [2]int
	Balls   [2]int
	Pending [2]int // 0 means no throw buffered

	TossWinner  Side
	Batting     Side
	FirstBatter Side
	Innings     int
	Target      int // 0 until innings 2

	Winner   Side
	Walkover bool
	Tied     bool
}

type CommandType string

const (
	CmdStartToss CommandType = "StartToss"
	CmdTossCall  CommandType = "TossCall"
	CmdBatBowl   CommandType = "BatBowlChoice"
	CmdThrow     CommandType = "Throw"
	CmdWalkover  CommandType = "Walkover"
)

type Command struct {
	Type   CommandType
	Side   Side
	Call   wire.Coin
	Choice wire.Choice
	Value  int
}

func Apply(s State, cmd Command) ([]types.Notice, State, error) {
	if s.Phase == PhaseComplete {
		return nil, s, ErrMatchComplete
	}

	switch cmd.Type {
	case CmdStartToss:
		if s.Phase != PhaseCreated {
			return nil, s, ErrWrongPhase
		}
		s.Phase = PhaseAwaitingToss
		a, b := s.Players[SideA], s.Players[SideB]
		return []types.Notice{
			types.To(a.ID, wire.MsgTossStart, wire.TossStart{MatchID: s.MatchID, IsCaller: true, OpponentName: b.Name}),
			types.To(b.ID, wire.MsgTossStart, wire.TossStart{MatchID: s.MatchID, IsCaller: false, OpponentName: a.Name}),
		}, s, nil

	case CmdTossCall:
		if s.Phase != PhaseAwaitingToss {
			return nil, s, ErrWrongPhase
		}
		// Side A always calls.
		if cmd.Side != SideA {
			return nil, s, ErrNotEntitled
		}
		if cmd.Call != wire.Heads && cmd.Call != wire.Tails {
			return nil, s, ErrInvalidCall
		}

		coin := flipCoin()
		s.TossWinner = SideB
		if cmd.Call == coin {
			s.TossWinner = SideA
		}
		s.Phase = PhaseBatBowl

		winner := s.Players[s.TossWinner]
		loser := s.Players[s.TossWinner.Other()]
		notices := make([]types.Notice, 0, 4)
		for _, p := range s.Players {
			notices = append(notices, types.To(p.ID, wire.MsgTossResult, wire.TossResult{
				Coin:       coin,
				Call:       cmd.Call,
				WinnerID:   winner.ID,
				WinnerName: winner.Name,
				YouWon:     p.ID == winner.ID,
			}))
		}
		notices = append(notices,
			types.To(winner.ID, wire.MsgChooseBatBowl, nil),
			types.Status(loser.ID, "You lost the toss. Waiting for opponent..."),
		)
		return notices, s, nil

	case CmdBatBowl:
		if s.Phase != PhaseBatBowl {
			return nil, s, ErrWrongPhase
		}
		if cmd.Side != s.TossWinner {
			return nil, s, ErrNotEntitled
		}
		switch cmd.Choice {
		case wire.Bat:
			s.Batting = cmd.Side
		case wire.Bowl:
			s.Batting = cmd.Side.Other()
		default:
			return nil, s, ErrInvalidChoice
		}
		s.FirstBatter = s.Batting
		s.Innings = 1
		s.Phase = PhaseInnings1

		notices := make([]types.Notice, 0, 2)
		for _, side := range []Side{SideA, SideB} {
			opp := s.Players[side.Other()]
			notices = append(notices, types.To(s.Players[side].ID, wire.MsgMatchStart, wire.MatchStart{
				MatchID:      s.MatchID,
				OpponentID:   opp.ID,
				OpponentName: opp.Name,
				IsBatting:    side == s.Batting,
			}))
		}
		return notices, s, nil

	case CmdThrow:
		if !inPlay(s.Phase) {
			return nil, s, ErrWrongPhase
		}
		if cmd.Value < MinThrow || cmd.Value > MaxThrow {
			return nil, s, ErrInvalidThrow
		}
		s.Pending[cmd.Side] = cmd.Value
		if s.Pending[cmd.Side.Other()] == 0 {
			return []types.Notice{types.Status(s.Players[cmd.Side].ID, "Waiting for opponent...")}, s, nil
		}
		return resolveBall(s)

	case CmdWalkover:
		s.Winner = cmd.Side
		s.Walkover = true
		s.Phase = PhaseComplete
		s.Pending = [2]int{}

		survivor := s.Players[cmd.Side]
		return []types.Notice{
			types.To(survivor.ID, wire.MsgOpponentLeft, nil),
			types.To(survivor.ID, wire.MsgMatchOver, matchOverFor(s, cmd.Side)),
		}, s, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func resolveBall(s State) ([]types.Notice, State, error) {
	bat := s.Batting
	field := bat.Other()
	batThrow, fieldThrow := s.Pending[bat], s.Pending[field]

	out := batThrow == fieldThrow
	runs := 0
	s.Balls[bat]++
	if out {
		s.Wickets[bat]++
	} else {
		runs = batThrow
		s.Score[bat] += runs
	}
	if s.Phase == PhaseInningsBreak {
		s.Phase = PhaseInnings2
	}

	notices := []types.Notice{
		types.To(s.Players[SideA].ID, wire.MsgTurnResult, turnResultFor(s, SideA, out, runs)),
		types.To(s.Players[SideB].ID, wire.MsgTurnResult, turnResultFor(s, SideB, out, runs)),
	}
	s.Pending = [2]int{}

	over := inningsOver(s)
	if s.Innings == 1 {
		if !over {
			return notices, s, nil
		}
		s.Target = s.Score[bat] + 1
		s.Batting = field
		s.Innings = 2
		s.Phase = PhaseInningsBreak
		for _, side := range []Side{SideA, SideB} {
			notices = append(notices, types.To(s.Players[side].ID, wire.MsgInningsEnd, wire.InningsEnd{
				Target:        s.Target,
				IsBatting:     side == s.Batting,
				YourScore:     s.Score[side],
				OpponentScore: s.Score[side.Other()],
			}))
		}
		return notices, s, nil
	}

	if s.Score[bat] >= s.Target || over {
		more, done := conclude(s)
		return append(notices, more...), done, nil
	}
	return notices, s, nil
}

// conclude decides the winner on score. Level scores go to the side that
// batted first: the chaser finished below the target.
func conclude(s State) ([]types.Notice, State) {
	a, b := s.Score[SideA], s.Score[SideB]
	switch {
	case a > b:
		s.Winner = SideA
	case b > a:
		s.Winner = SideB
	default:
		s.Winner = s.FirstBatter
		s.Tied = true
	}
	s.Phase = PhaseComplete

	return []types.Notice{
		types.To(s.Players[SideA].ID, wire.MsgMatchOver, matchOverFor(s, SideA)),
		types.To(s.Players[SideB].ID, wire.MsgMatchOver, matchOverFor(s, SideB)),
	}, s
}

func matchOverFor(s State, side Side) wire.MatchOver {
	winner := s.Players[s.Winner]
	m := wire.MatchOver{
		Outcome:         "lose",
		Message:         fmt.Sprintf("%s Wins!", winner.Name),
		WinnerName:      winner.Name,
		YourScore:       s.Score[side],
		OpponentScore:   s.Score[side.Other()],
		YourWickets:     s.Wickets[side],
		OpponentWickets: s.Wickets[side.Other()],
		Walkover:        s.Walkover,
		Tied:            s.Tied,
	}
	if side == s.Winner {
		m.Outcome = "win"
		m.Message = "YOU WIN!"
		m.WinnerName = "YOU"
		if s.Walkover {
			m.Message = "Opponent left. YOU WIN by walkover!"
		}
	}
	return m
}

func turnResultFor(s State, side Side, out bool, runs int) wire.TurnResult {
	other := side.Other()
	tr := wire.TurnResult{
		YourThrow:       s.Pending[side],
		OpponentThrow:   s.Pending[other],
		IsOut:           out,
		Runs:            runs,
		YourScore:       s.Score[side],
		OpponentScore:   s.Score[other],
		YourWickets:     s.Wickets[side],
		OpponentWickets: s.Wickets[other],
		YourBalls:       s.Balls[side],
		OpponentBalls:   s.Balls[other],
		IsBatting:       side == s.Batting,
		Innings:         s.Innings,
	}
	if s.Innings == 2 {
		tr.Target = s.Target
	}
	return tr
}
