package logging

import (
	"log/slog"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name     string
		input    *string
		expected slog.Level
	}{
		{"nil means info", nil, slog.LevelInfo},
		{"lowercase", strPtr("debug"), slog.LevelDebug},
		{"uppercase", strPtr("WARN"), slog.LevelWarn},
		{"mixed case", strPtr("Error"), slog.LevelError},
		{"surrounding whitespace", strPtr(" info "), slog.LevelInfo},
		{"garbage means info", strPtr("loud"), slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelFromString(tt.input); got != tt.expected {
				t.Errorf("LevelFromString() expected %v, got %v", tt.expected, got)
			}
		})
	}
}
