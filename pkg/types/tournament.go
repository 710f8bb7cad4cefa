package types

type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LobbyView struct {
	LobbyID string   `json:"lobbyId"`
	Players []Member `json:"players"`
	Count   int      `json:"count"`
	Size    int      `json:"size"`
	Host    string   `json:"host"`
}

// Pairing status values.
const (
	PairingPending = "pending"
	PairingLive    = "live"
	PairingDone    = "done"
)

type BracketPairing struct {
	MatchID    string `json:"matchId,omitempty"`
	P1         string `json:"p1"`
	P1Name     string `json:"p1Name"`
	P2         string `json:"p2"`
	P2Name     string `json:"p2Name"`
	Winner     string `json:"winner,omitempty"`
	WinnerName string `json:"winnerName,omitempty"`
	Open       bool   `json:"open"`
	Status     string `json:"status"`
}

type BracketView struct {
	TournamentID string             `json:"tournamentId"`
	Round        int                `json:"round"`
	Rounds       [][]BracketPairing `json:"rounds"`
	Champion     string             `json:"champion,omitempty"`
}

type ChampionCrowned struct {
	TournamentID string `json:"tournamentId"`
	ChampionID   string `json:"championId"`
	Name         string `json:"name"`
}
