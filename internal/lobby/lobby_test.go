package lobby

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tejsai973973/HandCricket/internal/codes"
	"github.com/Tejsai973973/HandCricket/internal/types"
	wire "github.com/Tejsai973973/HandCricket/pkg/types"
)

func newManager() *Manager {
	return NewManager(func(id string) string { return "name-" + id }, nil)
}

func countType(notices []types.Notice, msgType string) int {
	n := 0
	for _, nt := range notices {
		if nt.Msg.Type == msgType {
			n++
		}
	}
	return n
}

func TestCreate_RejectsUnsupportedSizes(t *testing.T) {
	m := newManager()
	for _, size := range []int{0, 2, 3, 5, 32, -4} {
		_, _, err := m.Create("host", size)
		assert.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}
	assert.Zero(t, m.Len())
}

func TestCreate_IssuesPrefixedCode(t *testing.T) {
	m := newManager()
	lb, notices, err := m.Create("host", 4)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(lb.ID, codes.LobbyPrefix))
	assert.Equal(t, []string{"host"}, lb.Members)
	require.Len(t, notices, 2)
	assert.Equal(t, wire.MsgLobbyCreated, notices[0].Msg.Type)
	assert.Equal(t, lb.ID, notices[0].Msg.Data.(wire.CodeIssued).Code)

	view, ok := m.View(lb.ID)
	require.True(t, ok)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, 4, view.Size)
	assert.Equal(t, "name-host", view.Players[0].Name)
}

func TestCreate_AvoidsReservedCodes(t *testing.T) {
	var rejected string
	m := NewManager(func(id string) string { return id }, func(c string) bool {
		if rejected == "" {
			rejected = c
			return true
		}
		return false
	})
	lb, _, err := m.Create("host", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, rejected)
	assert.NotEqual(t, rejected, lb.ID)
}

func TestJoin_FillsAndHandsOverRoster(t *testing.T) {
	m := newManager()
	lb, _, err := m.Create("p1", 4)
	require.NoError(t, err)

	for _, id := range []string{"p2", "p3"} {
		full, notices, err := m.Join(lb.ID, id)
		require.NoError(t, err)
		assert.Nil(t, full)
		assert.Equal(t, 1, countType(notices, wire.MsgLobbyJoined))
	}

	_, _, err = m.Join(lb.ID, "p2")
	assert.ErrorIs(t, err, ErrAlreadyMember)

	full, notices, err := m.Join(lb.ID, "p4")
	require.NoError(t, err)
	require.NotNil(t, full)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, full.Members)
	assert.Equal(t, 4, countType(notices, wire.MsgLobbyUpdate))

	_, ok := m.View(lb.ID)
	assert.False(t, ok, "full lobby must be removed")

	_, _, err = m.Join(lb.ID, "p5")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoin_RejectsWhenAtCapacity(t *testing.T) {
	m := newManager()
	lb, _, err := m.Create("p1", 4)
	require.NoError(t, err)
	// Simulate a roster that is already at capacity but not yet handed over.
	lb.Members = []string{"p1", "p2", "p3", "p4"}

	_, _, err = m.Join(lb.ID, "p5")
	assert.ErrorIs(t, err, ErrFull)
}

func TestLeave(t *testing.T) {
	t.Run("member leaves", func(t *testing.T) {
		m := newManager()
		lb, _, _ := m.Create("host", 8)
		_, _, _ = m.Join(lb.ID, "p2")
		_, _, _ = m.Join(lb.ID, "p3")

		evicted, notices := m.Leave(lb.ID, "p2")
		assert.Empty(t, evicted)
		assert.Equal(t, 2, countType(notices, wire.MsgLobbyUpdate))
		view, ok := m.View(lb.ID)
		require.True(t, ok)
		assert.Equal(t, 2, view.Count)
	})

	t.Run("host leaves with others present", func(t *testing.T) {
		m := newManager()
		lb, _, _ := m.Create("host", 8)
		_, _, _ = m.Join(lb.ID, "p2")
		_, _, _ = m.Join(lb.ID, "p3")

		evicted, notices := m.Leave(lb.ID, "host")
		assert.ElementsMatch(t, []string{"p2", "p3"}, evicted)
		assert.Equal(t, 2, countType(notices, wire.MsgErrorNotice))
		assert.Equal(t, 2, countType(notices, wire.MsgLobbyClosed))
		_, ok := m.View(lb.ID)
		assert.False(t, ok)
	})

	t.Run("last member leaves", func(t *testing.T) {
		m := newManager()
		lb, _, _ := m.Create("host", 4)

		evicted, notices := m.Leave(lb.ID, "host")
		assert.Empty(t, evicted)
		assert.Empty(t, notices)
		assert.Zero(t, m.Len())
	})

	t.Run("unknown lobby or member", func(t *testing.T) {
		m := newManager()
		lb, _, _ := m.Create("host", 4)

		evicted, notices := m.Leave("T-NOPE0", "host")
		assert.Empty(t, evicted)
		assert.Empty(t, notices)
		evicted, notices = m.Leave(lb.ID, "stranger")
		assert.Empty(t, evicted)
		assert.Empty(t, notices)
		assert.Equal(t, 1, m.Len())
	})
}
