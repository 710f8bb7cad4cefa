package engine

const (
	MaxWickets = 10
	MaxBalls   = 30
	MinThrow   = 1
	MaxThrow   = 6
)

func inPlay(p Phase) bool {
	return p == PhaseInnings1 || p == PhaseInningsBreak || p == PhaseInnings2
}

// inningsOver reports whether the side currently batting has exhausted
// its wickets or its balls.
func inningsOver(s State) bool {
	bat := s.Batting
	return s.Wickets[bat] >= MaxWickets || s.Balls[bat] >= MaxBalls
}
