package mlog

import (
	"io"
	"sync/atomic"
)

var std atomic.Pointer[Logger]

func init() {
	std.Store(NewLogger())
}

// Configure sets up the global logger.
// If logPath is empty, file logging is disabled.
// If daemonMode is true, stderr output is disabled.
func Configure(logPath string, level Level, daemonMode bool) error {
	l := std.Load()
	l.SetLevel(level)
	l.SetDaemonMode(daemonMode)

	if logPath != "" {
		f, err := OpenLogFile(logPath)
		if err != nil {
			return err
		}
		l.SetFileOutput(f)
	}

	return nil
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.Load().SetLevel(level)
}

// Debug logs a debug message using the global logger.
func Debug(format string, args ...any) {
	std.Load().Debug(format, args...)
}

// Info logs an informational message using the global logger.
func Info(format string, args ...any) {
	std.Load().Info(format, args...)
}

// Warn logs a warning message using the global logger.
func Warn(format string, args ...any) {
	std.Load().Warn(format, args...)
}

// Error logs an error message using the global logger.
func Error(format string, args ...any) {
	std.Load().Error(format, args...)
}

// Close closes the file writer if it implements io.Closer.
func Close() error {
	l := std.Load()
	l.mu.Lock()
	defer l.mu.Unlock()

	if closer, ok := l.fileWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Reset resets the global logger to default state.
func Reset() {
	std.Store(NewLogger())
}

// Discard configures the global logger to discard all output.
func Discard() {
	l := std.Load()
	l.SetFileOutput(nil)
	l.SetErrOutput(nil)
}

// TestLogger returns a debug-level logger that writes to w only.
func TestLogger(w io.Writer) *Logger {
	l := NewLogger()
	l.SetFileOutput(w)
	l.SetErrOutput(nil)
	l.SetLevel(LevelDebug)
	return l
}

// ReplaceGlobal replaces the global logger and returns the previous one.
func ReplaceGlobal(l *Logger) *Logger {
	return std.Swap(l)
}

// Writer returns an io.Writer that writes to mlog at the specified level.
// net/http.Server.ErrorLog is the intended consumer.
func Writer(level Level) io.Writer {
	return &levelWriter{level: level}
}

type levelWriter struct {
	level Level
}

func (w *levelWriter) Write(p []byte) (n int, err error) {
	msg := string(p)
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	std.Load().log(w.level, "%s", msg)
	return len(p), nil
}
