// Package mlog provides leveled operational logging for multihook.
//
// Log levels:
//   - Debug: gate acquisition, command output, hook bookkeeping
//   - Info: endpoint registration, dispatched requests
//   - Warn: unexpected conditions that don't prevent dispatch
//   - Error: failed actions, failed hooks, rejected requests
//
// Output destinations:
//   - File: all lines at or above the configured level
//   - Stderr: all lines at or above the configured level, disabled in daemon mode
package mlog

import "strings"

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug is for verbose diagnostic information.
	LevelDebug Level = iota
	// LevelInfo is for normal operational events.
	LevelInfo
	// LevelWarn is for unexpected conditions that don't prevent operation.
	LevelWarn
	// LevelError is for failures that affect functionality.
	LevelError
)

// String returns the uppercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level string (case-insensitive).
// Returns LevelInfo if the string is not recognized.
func ParseLevel(s string) Level {
	if level, ok := LookupLevel(s); ok {
		return level
	}
	return LevelInfo
}

// LookupLevel parses a level name, reporting whether it is known. Besides
// the four level names it accepts "trace" (as debug), "warning" and "err".
func LookupLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error", "err":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}
