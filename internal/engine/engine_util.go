package engine

import (
	"errors"
	"math/rand"

	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

func NewMatch(matchID, tournamentID string, a, b Player) State {
	return State{
		MatchID:      matchID,
		TournamentID: tournamentID,
		Players:      [2]Player{a, b},
		Phase:        PhaseCreated,
	}
}

// Result is the outcome of a completed match.
type Result struct {
	MatchID  string
	Winner   string
	Loser    string
	Walkover bool
}

func (s State) Result() (Result, bool) {
	if s.Phase != PhaseComplete {
		return Result{}, false
	}
	return Result{
		MatchID:  s.MatchID,
		Winner:   s.Players[s.Winner].ID,
		Loser:    s.Players[s.Winner.Other()].ID,
		Walkover: s.Walkover,
	}, true
}

// SideOf maps a participant to their side of the match.
func (s State) SideOf(id string) (Side, bool) {
	switch id {
	case s.Players[SideA].ID:
		return SideA, true
	case s.Players[SideB].ID:
		return SideB, true
	}
	return 0, false
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidThrow) || errors.Is(err, ErrInvalidCall) || errors.Is(err, ErrInvalidChoice)
}

// Tests replace this to pin the toss.
var flipCoin = func() wire.Coin {
	if rand.Intn(2) == 0 {
		return wire.Heads
	}
	return wire.Tails
}
