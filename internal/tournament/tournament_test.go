package tournament

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tejsai973973/HandCricket/internal/bracket"
	"github.com/Tejsai973973/HandCricket/internal/engine"
	"github.com/Tejsai973973/HandCricket/internal/match"
	"github.com/Tejsai973973/HandCricket/internal/types"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

type chanOut chan types.Notice

func (c chanOut) Deliver(notices ...types.Notice) {
	for _, n := range notices {
		c <- n
	}
}

type fakeHost struct {
	mu       sync.Mutex
	opened   []*match.Match
	released []string
	closed   chan []string
}

func newHost() *fakeHost { return &fakeHost{closed: make(chan []string, 1)} }

func (h *fakeHost) MatchOpened(m *match.Match) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened = append(h.opened, m)
}

func (h *fakeHost) MatchClosed(string, []string) {}

func (h *fakeHost) Release(_ string, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = append(h.released, id)
}

func (h *fakeHost) TournamentClosed(_ string, entrants []string) { h.closed <- entrants }

func (h *fakeHost) openedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.opened)
}

func (h *fakeHost) releasedIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.released...)
}

// immediate runs every task right away on its own goroutine.
type immediate struct{}

func (immediate) After(_ time.Duration, fn func(), _ ...string) { go fn() }
func (immediate) Cancel(...string)                            {}

// manual holds tasks until the test fires them.
type manual struct {
	mu    sync.Mutex
	tasks []task
}

type task struct {
	fn   func()
	tags []string
}

func (s *manual) After(_ time.Duration, fn func(), tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task{fn: fn, tags: tags})
}

func (s *manual) Cancel(...string) {}

// fire runs every pending task carrying tag.
func (s *manual) fire(tag string) int {
	s.mu.Lock()
	var run []func()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if containsTag(t.tags, tag) {
			run = append(run, t.fn)
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	s.mu.Unlock()

	for _, fn := range run {
		fn()
	}
	return len(run)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func entrants(n int) []bracket.Entrant {
	out := make([]bracket.Entrant, n)
	for i := range out {
		out[i] = bracket.Entrant{ID: fmt.Sprintf("P%d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
	}
	return out
}

func bracketOf(t *testing.T, tr *Tournament) wire.BracketView {
	t.Helper()
	reply := make(chan wire.BracketView, 1)
	require.True(t, tr.Send(GetBracket{Reply: reply}))
	select {
	case v := <-reply:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for bracket")
		return wire.BracketView{}
	}
}

func waitClosed(t *testing.T, h *fakeHost) []string {
	t.Helper()
	select {
	case ids := <-h.closed:
		return ids
	case <-time.After(2 * time.Second):
		t.Fatal("tournament never closed")
		return nil
	}
}

func countTo(out chanOut, msgType string) map[string]int {
	counts := make(map[string]int)
	for {
		select {
		case n := <-out:
			if n.Msg.Type == msgType {
				counts[n.To]++
			}
		default:
			return counts
		}
	}
}

func newTournament(t *testing.T, n int, sched Scheduler) (*Tournament, *fakeHost, chanOut) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	host := newHost()
	out := make(chanOut, 1024)
	tr := New(ctx, "T-ABCDE", entrants(n), Config{Out: out, Host: host, Sched: sched})
	return tr, host, out
}

// Every round, one side of each pairing drops out. The survivor of each
// walkover advances until only a champion remains.
func TestTournament_WalkoversCrownChampion(t *testing.T) {
	tr, host, out := newTournament(t, 4, immediate{})
	tr.Send(Start{})
	require.Eventually(t, func() bool { return host.openedCount() == 2 }, time.Second, 5*time.Millisecond)

	v := bracketOf(t, tr)
	require.Len(t, v.Rounds, 1)
	for _, p := range v.Rounds[0] {
		assert.Equal(t, wire.PairingLive, p.Status)
		tr.Send(Disconnect{ID: p.P2})
	}

	require.Eventually(t, func() bool { return host.openedCount() == 3 }, time.Second, 5*time.Millisecond)
	v = bracketOf(t, tr)
	require.Len(t, v.Rounds, 2)
	final := v.Rounds[1][0]
	assert.Equal(t, v.Rounds[0][0].P1, final.P1)
	assert.Equal(t, v.Rounds[0][1].P1, final.P2)

	tr.Send(Disconnect{ID: final.P2})
	ids := waitClosed(t, host)
	assert.Len(t, ids, 4)

	select {
	case <-tr.Done():
	case <-time.After(time.Second):
		t.Fatal("tournament actor still running")
	}
	assert.ElementsMatch(t, []string{v.Rounds[0][0].P2, v.Rounds[0][1].P2, final.P2}, host.releasedIDs())

	crowned := countTo(out, wire.MsgChampionCrowned)
	assert.Len(t, crowned, 4, "every entrant hears about the champion")
}

func TestTournament_DepartedBeforeKickoffIsWalkedOver(t *testing.T) {
	sched := &manual{}
	tr, host, out := newTournament(t, 4, sched)
	tr.Send(Start{})

	v := bracketOf(t, tr)
	require.Len(t, v.Rounds, 1)
	leaver := v.Rounds[0][0].P1
	survivor := v.Rounds[0][0].P2
	tr.Send(Disconnect{ID: leaver})
	bracketOf(t, tr)

	require.Equal(t, 1, sched.fire("round:T-ABCDE:1"))
	v = bracketOf(t, tr)
	assert.Equal(t, 1, host.openedCount(), "only the intact pairing gets a match")
	assert.Equal(t, survivor, v.Rounds[0][0].Winner)
	assert.Equal(t, wire.PairingLive, v.Rounds[0][1].Status)
	assert.Equal(t, []string{leaver}, host.releasedIDs())

	// A duplicate round timer must not create matches twice.
	tr.Send(StartRound{Round: 1})
	bracketOf(t, tr)
	assert.Equal(t, 1, host.openedCount())

	over := 0
	for {
		select {
		case n := <-out:
			if n.To == survivor && n.Msg.Type == wire.MsgMatchOver {
				over++
				assert.True(t, n.Msg.Data.(wire.MatchOver).Walkover)
			}
			continue
		default:
		}
		break
	}
	assert.Equal(t, 1, over)
}

func TestTournament_AbandonedWhenEveryoneLeaves(t *testing.T) {
	tr, host, _ := newTournament(t, 4, &manual{})
	tr.Send(Start{})
	for i := 1; i <= 4; i++ {
		tr.Send(Disconnect{ID: fmt.Sprintf("P%d", i)})
	}
	ids := waitClosed(t, host)
	assert.Len(t, ids, 4)
	assert.False(t, tr.Send(Start{}))
}

func TestTournament_StaleResultIgnored(t *testing.T) {
	tr, host, _ := newTournament(t, 4, immediate{})
	tr.Send(Start{})
	require.Eventually(t, func() bool { return host.openedCount() == 2 }, time.Second, 5*time.Millisecond)
	before := bracketOf(t, tr)

	tr.ReportResult(engine.Result{MatchID: "T-ABCDE-R9-M0", Winner: "P1", Loser: "P2"})
	assert.Equal(t, before, bracketOf(t, tr))
	assert.Empty(t, host.releasedIDs())
}
