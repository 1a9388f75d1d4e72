// Package audit provides structured logging for webhook dispatch events.
// Log entries follow a key=value format suitable for parsing and analysis.
package audit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// EventType represents the type of dispatch event.
type EventType string

// Event types for webhook dispatch.
const (
	EventRequest  EventType = "REQUEST"
	EventReject   EventType = "REJECT"
	EventComplete EventType = "COMPLETE"
	EventFail     EventType = "FAIL"
	EventDetach   EventType = "DETACH"
)

// Event represents a dispatch audit log entry.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Type is the event type (REQUEST, FAIL, etc.)
	Type EventType

	// Endpoint is the endpoint name.
	Endpoint string

	// ID is the request ID, also returned to the sender as X-Request-Id.
	ID string

	// Remote is the sender address (for REQUEST events).
	Remote string

	// Reason is the rejection or failure detail (for REJECT and FAIL events).
	Reason string

	// ExitCode is the action exit code (for FAIL events, -1 when unknown).
	ExitCode int

	// Duration is the dispatch time (for COMPLETE and FAIL events).
	Duration time.Duration
}

// Format returns the log entry as a formatted string.
// Format: 2024-01-15T14:32:05Z DISPATCH REQUEST endpoint=deploy id=5f0c... remote="10.0.0.5:41234"
// Format: 2024-01-15T14:32:06Z DISPATCH FAIL endpoint=deploy id=5f0c... reason="..." exit=1 duration=1.2s
func (e *Event) Format() string {
	var b strings.Builder

	b.WriteString(e.Timestamp.UTC().Format(time.RFC3339))
	b.WriteString(" DISPATCH ")
	b.WriteString(string(e.Type))

	b.WriteString(" endpoint=")
	b.WriteString(e.Endpoint)
	b.WriteString(" id=")
	b.WriteString(e.ID)

	e.formatTypeSpecificFields(&b)

	return b.String()
}

// formatTypeSpecificFields appends type-specific key=value pairs to the builder.
func (e *Event) formatTypeSpecificFields(b *strings.Builder) {
	switch e.Type {
	case EventRequest:
		writeOptionalField(b, "remote", e.Remote)
	case EventReject:
		writeOptionalField(b, "reason", e.Reason)
	case EventComplete:
		b.WriteString(" duration=")
		b.WriteString(formatDuration(e.Duration))
	case EventFail:
		writeOptionalField(b, "reason", e.Reason)
		if e.ExitCode >= 0 {
			b.WriteString(" exit=")
			b.WriteString(strconv.Itoa(e.ExitCode))
		}
		b.WriteString(" duration=")
		b.WriteString(formatDuration(e.Duration))
	}
}

// writeOptionalField appends " key=quoted_value" to the builder if value is non-empty.
func writeOptionalField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(quoteValue(value))
}

// quoteValue returns a quoted string value.
// Values are always quoted for consistency and to handle spaces/special chars.
func quoteValue(s string) string {
	return fmt.Sprintf("%q", s)
}

// formatDuration formats a duration as a human-readable string (e.g., "2.3s", "1m30s").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Logger writes audit events to an io.Writer. A nil *Logger discards
// events.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewLogger creates a new audit logger that writes to the given writer.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// Log writes an event to the audit log.
func (l *Logger) Log(e *Event) error {
	if l == nil || l.w == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	line := e.Format() + "\n"
	_, err := l.w.Write([]byte(line))
	if err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

func (l *Logger) timestamp() time.Time {
	if l == nil || l.now == nil {
		return time.Now()
	}
	return l.now()
}

// LogRequest logs a DISPATCH REQUEST event.
func (l *Logger) LogRequest(endpoint, id, remote string) error {
	return l.Log(&Event{
		Timestamp: l.timestamp(),
		Type:      EventRequest,
		Endpoint:  endpoint,
		ID:        id,
		Remote:    remote,
	})
}

// LogReject logs a DISPATCH REJECT event for a request refused before any
// command ran.
func (l *Logger) LogReject(endpoint, id, reason string) error {
	return l.Log(&Event{
		Timestamp: l.timestamp(),
		Type:      EventReject,
		Endpoint:  endpoint,
		ID:        id,
		Reason:    reason,
	})
}

// LogComplete logs a DISPATCH COMPLETE event.
func (l *Logger) LogComplete(endpoint, id string, duration time.Duration) error {
	return l.Log(&Event{
		Timestamp: l.timestamp(),
		Type:      EventComplete,
		Endpoint:  endpoint,
		ID:        id,
		Duration:  duration,
	})
}

// LogFail logs a DISPATCH FAIL event. Pass exitCode -1 when the action did
// not exit on its own.
func (l *Logger) LogFail(endpoint, id, reason string, exitCode int, duration time.Duration) error {
	return l.Log(&Event{
		Timestamp: l.timestamp(),
		Type:      EventFail,
		Endpoint:  endpoint,
		ID:        id,
		Reason:    reason,
		ExitCode:  exitCode,
		Duration:  duration,
	})
}

// LogDetach logs a DISPATCH DETACH event for a request whose action was
// started in the background.
func (l *Logger) LogDetach(endpoint, id string) error {
	return l.Log(&Event{
		Timestamp: l.timestamp(),
		Type:      EventDetach,
		Endpoint:  endpoint,
		ID:        id,
	})
}
