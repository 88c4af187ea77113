package logging

import (
	"log/slog"
	"strings"
)

// LevelFromString maps a configured level name ("debug", "INFO", ...) to a
// slog level. Nil or unrecognized values mean info.
func LevelFromString(str *string) slog.Level {
	if str == nil {
		return slog.LevelInfo
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(*str))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
