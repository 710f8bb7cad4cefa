// Package dispatch delivers notices to connected participants. Each
// connection registers a buffered outbox; a participant whose outbox is full
// is dropped rather than allowed to stall the match or tournament that is
// sending.
package dispatch

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Tejsai973973/HandCricket/internal/types"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

type Dispatcher struct {
	mu    sync.RWMutex
	conns map[string]chan wire.ServerMessage
	log   *zap.Logger
}

func New(log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		conns: make(map[string]chan wire.ServerMessage),
		log:   log,
	}
}

// Register attaches an outbox to id, replacing (and closing) any previous one.
func (d *Dispatcher) Register(id string, out chan wire.ServerMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if old, ok := d.conns[id]; ok && old != out {
		close(old)
	}
	d.conns[id] = out
}

// Unregister detaches and closes id's outbox. Unknown ids are ignored.
func (d *Dispatcher) Unregister(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if out, ok := d.conns[id]; ok {
		close(out)
		delete(d.conns, id)
	}
}

// Close detaches every connection, which ends their writers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, out := range d.conns {
		close(out)
		delete(d.conns, id)
	}
}

func (d *Dispatcher) Connected(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.conns[id]
	return ok
}

// Deliver never blocks. Notices for participants that are gone are dropped
// silently.
func (d *Dispatcher) Deliver(notices ...types.Notice) {
	var slow []string

	d.mu.RLock()
	for _, n := range notices {
		out, ok := d.conns[n.To]
		if !ok {
			continue
		}
		select {
		case out <- n.Msg:
		default:
			slow = append(slow, n.To)
		}
	}
	d.mu.RUnlock()

	for _, id := range slow {
		d.log.Warn("dropping slow client", zap.String("conn", id))
		d.Unregister(id)
	}
}
