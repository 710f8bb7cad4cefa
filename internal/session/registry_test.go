package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Al", want: "Al"},
		{in: "  Sachin  ", want: "Sachin"},
		{in: "fifteen-chars!!", want: "fifteen-chars!!"},
		{in: "Dhoni日本", want: "Dhoni日本"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "A", wantErr: true},
		{in: "sixteen-chars!!!", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ValidateName(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRegistry_DefaultAndCustomName(t *testing.T) {
	r := NewRegistry()
	r.Add("abcdef-123")
	assert.Equal(t, "Player abcde", r.Name("abcdef-123"))

	_, err := r.SetName("abcdef-123", "x")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, "Player abcde", r.Name("abcdef-123"))

	name, err := r.SetName("abcdef-123", " Kohli ")
	require.NoError(t, err)
	assert.Equal(t, "Kohli", name)
	assert.Equal(t, "Kohli", r.Name("abcdef-123"))

	assert.Equal(t, "Player gone", r.Name("gone"))
}

func TestRegistry_UnbindOnlyMatchingReference(t *testing.T) {
	r := NewRegistry()
	p := r.Add("p1")

	r.BindMatch("p1", "M1")
	r.UnbindMatch("p1", "M0")
	assert.Equal(t, "M1", p.MatchID)
	r.UnbindMatch("p1", "M1")
	assert.Empty(t, p.MatchID)

	r.BindLobby("p1", "T-AAAAA")
	assert.True(t, p.Busy())
	r.UnbindLobby("p1", "T-AAAAA")
	assert.False(t, p.Busy())

	r.BindTournament("p1", "T-BBBBB")
	r.UnbindTournament("p1", "T-CCCCC")
	assert.Equal(t, "T-BBBBB", p.TournamentID)
}

func TestRegistry_BindAfterRemoveIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Add("p1")
	_, ok := r.Remove("p1")
	require.True(t, ok)

	r.BindMatch("p1", "M1")
	_, ok = r.Get("p1")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}
