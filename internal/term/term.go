// Package term provides user-facing terminal output for the multihook CLI.
// This is distinct from operational logging (see internal/mlog).
//
// Normal output goes to stdout and is suppressed with --silent. Warnings,
// errors and check results go to stderr or stdout regardless. Prefixes are
// colored only when the destination is a terminal.
package term

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	xterm "golang.org/x/term"
)

var (
	mu     sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	silent bool

	okColor   = newColor(color.FgGreen, color.Bold)
	warnColor = newColor(color.FgYellow, color.Bold)
	errColor  = newColor(color.FgRed, color.Bold)
)

func newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// SetSilent enables or disables silent mode.
func SetSilent(s bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = s
}

// IsSilent returns whether silent mode is enabled.
func IsSilent() bool {
	mu.Lock()
	defer mu.Unlock()
	return silent
}

// SetOutput sets the writer for stdout output.
// Pass nil to use os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	stdout = w
}

// SetErrOutput sets the writer for stderr output.
// Pass nil to use os.Stderr.
func SetErrOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	stderr = w
}

// Printf formats according to a format specifier and writes to stdout.
// Suppressed when silent mode is enabled.
func Printf(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if silent {
		return
	}
	_, _ = fmt.Fprintf(stdout, format, a...)
}

// Println formats and writes to stdout with a trailing newline.
// Suppressed when silent mode is enabled.
func Println(a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if silent {
		return
	}
	_, _ = fmt.Fprintln(stdout, a...)
}

// OK writes a check result to stdout with an "OK: " prefix.
// NOT suppressed by silent mode.
func OK(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	writePrefixed(stdout, okColor, "OK:", fmt.Sprintf(format, a...))
}

// Warn writes a warning message to stderr with "Warning: " prefix.
// NOT suppressed by silent mode.
func Warn(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	writePrefixed(stderr, warnColor, "Warning:", fmt.Sprintf(format, a...))
}

// Error writes an error message to stderr with "Error: " prefix.
// NOT suppressed by silent mode.
func Error(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	writePrefixed(stderr, errColor, "Error:", fmt.Sprintf(format, a...))
}

func writePrefixed(w io.Writer, c *color.Color, prefix, msg string) {
	if isTerminal(w) {
		prefix = c.Sprint(prefix)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", prefix, msg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && xterm.IsTerminal(int(f.Fd()))
}

// Stdout returns the current stdout writer, or io.Discard when silent.
func Stdout() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if silent {
		return io.Discard
	}
	return stdout
}

// Reset resets the package to default state.
// Primarily useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	stdout = os.Stdout
	stderr = os.Stderr
	silent = false
}

// Discard configures the package to discard all output.
// Useful for silencing output in tests.
func Discard() {
	mu.Lock()
	defer mu.Unlock()
	stdout = io.Discard
	stderr = io.Discard
}
