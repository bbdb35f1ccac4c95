package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		token string
		want  time.Duration
	}{
		{"1s", time.Second},
		{"45s", 45 * time.Second},
		{"10m", 10 * time.Minute},
		{"2h", 2 * time.Hour},
		{"3d", 72 * time.Hour},
		{"365d", 365 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseDuration(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDurationInvalid(t *testing.T) {
	tokens := []string{
		"",
		"5",
		"m",
		"5x",  // unknown unit is a hard error, not a fallback
		"m5",  // unit before number
		"-5s", // negative
		"+5s",
		"0m", // zero is not a positive duration
		"1.5h",
		" 5s",
		"5s ",
		"5S",
	}

	for _, token := range tokens {
		t.Run("invalid_"+token, func(t *testing.T) {
			_, err := ParseDuration(token)
			assert.ErrorIs(t, err, ErrInvalidDuration)
		})
	}
}
