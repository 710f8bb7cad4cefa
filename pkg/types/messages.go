package types

// Client -> Server
//   setIdentity:   name
//   createRoom:    {}
//   joinRoom:      code
//   createLobby:   size (4 | 8 | 16)
//   joinLobby:     code
//   leaveLobby:    {}
//   tossCall:      call ("Heads" | "Tails")
//   batBowlChoice: choice ("Bat" | "Bowl")
//   throw:         value (1..6)

const (
	CmdSetIdentity   = "setIdentity"
	CmdCreateRoom    = "createRoom"
	CmdJoinRoom      = "joinRoom"
	CmdCreateLobby   = "createLobby"
	CmdJoinLobby     = "joinLobby"
	CmdLeaveLobby    = "leaveLobby"
	CmdTossCall      = "tossCall"
	CmdBatBowlChoice = "batBowlChoice"
	CmdThrow         = "throw"
)

// Server -> Client
const (
	MsgIdentitySet     = "identitySet"
	MsgRoomCreated     = "roomCreated"
	MsgLobbyCreated    = "lobbyCreated"
	MsgLobbyJoined     = "lobbyJoined"
	MsgLobbyUpdate     = "lobbyUpdate"
	MsgLobbyClosed     = "lobbyClosed"
	MsgTossStart       = "tossStart"
	MsgTossResult      = "tossResult"
	MsgChooseBatBowl   = "chooseBatBowl"
	MsgStatus          = "status"
	MsgMatchStart      = "matchStart"
	MsgTurnResult      = "turnResult"
	MsgInningsEnd      = "inningsEnd"
	MsgMatchOver       = "matchOver"
	MsgOpponentLeft    = "opponentLeft"
	MsgBracketUpdate   = "bracketUpdate"
	MsgChampionCrowned = "championCrowned"
	MsgErrorNotice     = "errorNotice"
)

type Coin string

const (
	Heads Coin = "Heads"
	Tails Coin = "Tails"
)

type Choice string

const (
	Bat  Choice = "Bat"
	Bowl Choice = "Bowl"
)

type ClientMessage struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Code   string `json:"code,omitempty"`
	Size   int    `json:"size,omitempty"`
	Call   Coin   `json:"call,omitempty"`
	Choice Choice `json:"choice,omitempty"`
	Value  int    `json:"value,omitempty"`
}

type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type IdentitySet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CodeIssued struct {
	Code string `json:"code"`
}

type ErrorNotice struct {
	Reason string `json:"reason"`
}

type Status struct {
	Text string `json:"text"`
}
