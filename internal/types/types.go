package types

import wire "github.com/Tejsai973973/HandCricket/pkg/types"

// Notice is one outbound message addressed to one participant. State
// machines return notices; the dispatcher delivers them.
type Notice struct {
	To  string
	Msg wire.ServerMessage
}

func To(id, msgType string, data any) Notice {
	return Notice{To: id, Msg: wire.ServerMessage{Type: msgType, Data: data}}
}

func Broadcast(ids []string, msgType string, data any) []Notice {
	out := make([]Notice, 0, len(ids))
	for _, id := range ids {
		out = append(out, To(id, msgType, data))
	}
	return out
}

func Error(id, reason string) Notice {
	return To(id, wire.MsgErrorNotice, wire.ErrorNotice{Reason: reason})
}

func Status(id, text string) Notice {
	return To(id, wire.MsgStatus, wire.Status{Text: text})
}
