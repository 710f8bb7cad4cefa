package types

// Every match payload is self-relative: "Your*" fields describe the
// recipient, "Opponent*" fields the other side.

type TossStart struct {
	MatchID      string `json:"matchId"`
	IsCaller     bool   `json:"isCaller"`
	OpponentName string `json:"opponentName"`
}

type TossResult struct {
	Coin       Coin   `json:"coin"`
	Call       Coin   `json:"call"`
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
	YouWon     bool   `json:"youWon"`
}

type MatchStart struct {
	MatchID      string `json:"matchId"`
	OpponentID   string `json:"opponentId"`
	OpponentName string `json:"opponentName"`
	IsBatting    bool   `json:"isBatting"`
}

type TurnResult struct {
	YourThrow       int  `json:"yourThrow"`
	OpponentThrow   int  `json:"opponentThrow"`
	IsOut           bool `json:"isOut"`
	Runs            int  `json:"runs"`
	YourScore       int  `json:"yourScore"`
	OpponentScore   int  `json:"opponentScore"`
	YourWickets     int  `json:"yourWickets"`
	OpponentWickets int  `json:"opponentWickets"`
	YourBalls       int  `json:"yourBalls"`
	OpponentBalls   int  `json:"opponentBalls"`
	IsBatting       bool `json:"isBatting"`
	Target          int  `json:"target,omitempty"`
	Innings         int  `json:"innings"`
}

type InningsEnd struct {
	Target        int  `json:"target"`
	IsBatting     bool `json:"isBatting"`
	YourScore     int  `json:"yourScore"`
	OpponentScore int  `json:"opponentScore"`
}

type MatchOver struct {
	Outcome         string `json:"outcome"` // "win" | "lose"
	Message         string `json:"message"`
	WinnerName      string `json:"winnerName"`
	YourScore       int    `json:"yourScore"`
	OpponentScore   int    `json:"opponentScore"`
	YourWickets     int    `json:"yourWickets"`
	OpponentWickets int    `json:"opponentWickets"`
	Walkover        bool   `json:"walkover,omitempty"`
	Tied            bool   `json:"tied,omitempty"`
}
