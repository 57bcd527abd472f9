package config

import (
	"io"
	"log/slog"
	"strings"
)

var logLevel = new(slog.LevelVar)

// SetupLogger installs a text slog logger on w as the default logger
func SetupLogger(w io.Writer, level string) {
	logLevel.Set(ParseLogLevel(level))
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

// SetLogLevel changes the level of the logger installed by SetupLogger
func SetLogLevel(level string) {
	logLevel.Set(ParseLogLevel(level))
}

// ParseLogLevel maps debug, info, warn and error to slog levels; anything else is info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
