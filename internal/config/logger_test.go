package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			NewLogger(LoggerConfig{Level: tt.level, Format: "json"}, ServiceProduct)
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}
