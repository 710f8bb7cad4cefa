package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(kv map[string]string) func(string) string {
	return func(k string) string { return kv[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.RoundSettleDelay)
	assert.Equal(t, time.Second, cfg.TossDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.MatchRetain)
	assert.Equal(t, 10*time.Minute, cfg.WSReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.WSWriteTimeout)
	assert.Equal(t, 32, cfg.OutboxSize)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"HTTP_ADDR":          "127.0.0.1:9000",
		"LOG_FORMAT":         "console",
		"ALLOWED_ORIGINS":    " localhost:*, example.com ,,",
		"ROUND_SETTLE_DELAY": "0s",
		"OUTBOX_SIZE":        "8",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, []string{"localhost:*", "example.com"}, cfg.AllowedOrigins)
	assert.Zero(t, cfg.RoundSettleDelay)
	assert.Equal(t, 8, cfg.OutboxSize)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"duration":   {"TOSS_DELAY": "soon"},
		"negative":   {"MATCH_RETAIN": "-1s"},
		"outbox":     {"OUTBOX_SIZE": "0"},
		"log format": {"LOG_FORMAT": "xml"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(kv))
			require.Error(t, err)
			for k := range kv {
				assert.Contains(t, err.Error(), k)
			}
		})
	}
}
