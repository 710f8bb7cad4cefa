package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tejsai973973/HandCricket/internal/hub"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

type Options struct {
	OriginPatterns []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	OutboxSize     int
	Log            *zap.Logger
}

// Handler upgrades the request and binds the connection to a fresh
// participant identity for its whole lifetime.
func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.OutboxSize < 1 {
		opts.OutboxSize = 32
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Minute
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			opts.Log.Debug("websocket accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := opts.Log.With(zap.String("conn", clientID))

		out := make(chan wire.ServerMessage, opts.OutboxSize)
		if !h.Send(hub.Connect{ID: clientID, Outbox: out}) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
		defer h.Send(hub.Disconnect{ID: clientID})

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine; the dispatcher closes out on disconnect or when
		// this client falls too far behind.
		go func() {
			defer cancel()
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Error("marshal server message", zap.String("type", msg.Type), zap.Error(err))
					continue
				}
				wctx, wcancel := context.WithTimeout(ctx, opts.WriteTimeout)
				err = conn.Write(wctx, websocket.MessageText, payload)
				wcancel()
				if err != nil {
					log.Debug("write failed", zap.Error(err))
					return
				}
			}
		}()

		// Reader loop
		for {
			rctx, rcancel := context.WithTimeout(ctx, opts.ReadTimeout)
			_, data, err := conn.Read(rctx)
			rcancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read ended", zap.Error(err))
				}
				return
			}

			var cm wire.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(ctx, conn, opts.WriteTimeout, "bad json")
				continue
			}
			h.Send(hub.FromClient{ID: clientID, Msg: cm})
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, timeout time.Duration, reason string) {
	payload, _ := json.Marshal(wire.ServerMessage{
		Type: wire.MsgErrorNotice,
		Data: wire.ErrorNotice{Reason: reason},
	})
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}
