package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog.LevelDebug and is used by Observer.Trace.
const LevelTrace = slog.LevelDebug - 4

const (
	envLogLevel       = "JSONRESCUE_LOG_LEVEL"
	envLogLevelShared = "LOG_LEVEL"
)

// GetLogLevelFromEnv reads JSONRESCUE_LOG_LEVEL, then LOG_LEVEL.
// It returns slog.LevelInfo when neither is set.
func GetLogLevelFromEnv() slog.Level {
	v := lookupEnv(envLogLevel, envLogLevelShared)
	if v == "" {
		return slog.LevelInfo
	}
	return ParseLogLevel(v)
}

// ParseLogLevel maps TRACE, DEBUG, INFO, WARN/WARNING and ERROR
// (case-insensitive) to a slog.Level. Anything else yields slog.LevelInfo.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogLevelString is the inverse of ParseLogLevel for the named levels.
func LogLevelString(level slog.Level) string {
	switch level {
	case LevelTrace:
		return "TRACE"
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(level))
}

// levelLabel buckets arbitrary levels into the five names used on output.
func levelLabel(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	}
	return "ERROR"
}

// lookupEnv returns the first non-empty value among keys.
func lookupEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
