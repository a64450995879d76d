package utils

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseLogLevel maps a level name such as "debug" or "WARN" to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return l, nil
}
