package ui

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Terminal writes user-facing status lines to stdout/stderr, separate from
// the structured log stream
type Terminal struct {
	quiet   bool
	noColor bool
}

// NewTerminal creates a terminal writer. Colors are dropped when the
// output is not a TTY.
func NewTerminal(quiet, noColor bool) *Terminal {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		noColor = true
	}
	return &Terminal{quiet: quiet, noColor: noColor}
}

func (t *Terminal) colorize(color, s string) string {
	if t.noColor {
		return s
	}
	return color + s + colorReset
}

// Success prints a green checkmarked line
func (t *Terminal) Success(format string, args ...interface{}) {
	if t.quiet {
		return
	}
	fmt.Println(t.colorize(colorGreen, "✓ "+fmt.Sprintf(format, args...)))
}

// Info prints a plain status line
func (t *Terminal) Info(format string, args ...interface{}) {
	if t.quiet {
		return
	}
	fmt.Println(fmt.Sprintf(format, args...))
}

// Highlight prints a bold cyan line, for headers and totals
func (t *Terminal) Highlight(format string, args ...interface{}) {
	if t.quiet {
		return
	}
	fmt.Println(t.colorize(colorBold+colorCyan, fmt.Sprintf(format, args...)))
}

// Warning prints a yellow warning line
func (t *Terminal) Warning(format string, args ...interface{}) {
	if t.quiet {
		return
	}
	fmt.Println(t.colorize(colorYellow, "! "+fmt.Sprintf(format, args...)))
}

// Error prints a red error line to stderr. Errors print even in quiet mode.
func (t *Terminal) Error(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, t.colorize(colorRed, "✗ "+fmt.Sprintf(format, args...)))
}
