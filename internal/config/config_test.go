package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		ok       bool
	}{
		{"days suffix", "7d", 7 * 24 * time.Hour, true},
		{"single day", "1d", 24 * time.Hour, true},
		{"hours", "1h", time.Hour, true},
		{"minutes", "15m", 15 * time.Minute, true},
		{"garbage", "sevendays", 0, false},
		{"negative days", "-3d", 0, false},
		{"zero", "0h", 0, false},
		{"empty suffix", "d", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := parseDuration(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, parsed)
			}
		})
	}
}

func TestGetEnvDurationFallsBack(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "not-a-duration")
	assert.Equal(t, DefaultRefreshTokenTTL, getEnvDuration("REFRESH_TOKEN_EXPIRES_IN", DefaultRefreshTokenTTL))

	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "14d")
	assert.Equal(t, 14*24*time.Hour, getEnvDuration("REFRESH_TOKEN_EXPIRES_IN", DefaultRefreshTokenTTL))
}
