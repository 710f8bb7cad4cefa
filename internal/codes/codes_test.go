package codes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_UppercaseAlphanumeric(t *testing.T) {
	for i := 0; i < 100; i++ {
		c, err := Generate(Length)
		require.NoError(t, err)
		require.Len(t, c, Length)
		for _, r := range c {
			assert.True(t, strings.ContainsRune(charset, r), "unexpected rune %q in %q", r, c)
		}
	}
}

func TestUnique_PrefixAndCollisionRetry(t *testing.T) {
	calls := 0
	code, err := Unique(LobbyPrefix, func(string) bool {
		calls++
		return calls < 3
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, strings.HasPrefix(code, LobbyPrefix))
	assert.Len(t, code, len(LobbyPrefix)+Length)
}

func TestUnique_GivesUp(t *testing.T) {
	_, err := Unique("", func(string) bool { return true })
	assert.ErrorIs(t, err, ErrExhausted)
}
