package logging

import (
	"log/slog"
	"strings"
)

// LevelFromString accepts the slog level names ("debug", "WARN", "INFO+2"),
// anything else or nil gives INFO.
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
