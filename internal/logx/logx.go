// Package logx provides the ambient structured logger used across the
// CLI and core pipeline, shaped after pkg/repository.Logger in the teacher
// repo: Debug/Info/Warn/Error, each a printf-style message plus args.
package logx

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger is the shared logging interface. Every component that needs to
// log takes a Logger rather than reaching for the standard library's log
// package directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Level controls which messages a Logger emits.
type Level int

const (
	LevelQuiet Level = iota
	LevelInfo
	LevelDebug
)

// noop discards everything; used as a safe default collaborator.
type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}

// Noop returns a Logger that discards all messages.
func Noop() Logger { return noop{} }

// colorLogger writes leveled, colorized messages to an io.Writer, turning
// color off automatically when the writer is not a terminal (checked via
// go-isatty, matching the teacher's reliance on mattn/go-isatty elsewhere
// in its TUI stack).
type colorLogger struct {
	out   io.Writer
	level Level

	debug *color.Color
	info  *color.Color
	warn  *color.Color
	errc  *color.Color
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level Level) Logger {
	noColor := !isTerminal(w)

	mk := func(attr color.Attribute) *color.Color {
		c := color.New(attr)
		c.EnableColor()
		if noColor {
			c.DisableColor()
		}
		return c
	}

	return &colorLogger{
		out:   w,
		level: level,
		debug: mk(color.FgHiBlack),
		info:  mk(color.FgCyan),
		warn:  mk(color.FgYellow),
		errc:  mk(color.FgRed),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *colorLogger) Debug(msg string, args ...any) {
	if l.level < LevelDebug {
		return
	}
	fmt.Fprintln(l.out, l.debug.Sprint("debug: ")+fmt.Sprintf(msg, args...))
}

func (l *colorLogger) Info(msg string, args ...any) {
	if l.level < LevelInfo {
		return
	}
	fmt.Fprintln(l.out, l.info.Sprint("info: ")+fmt.Sprintf(msg, args...))
}

func (l *colorLogger) Warn(msg string, args ...any) {
	fmt.Fprintln(l.out, l.warn.Sprint("warn: ")+fmt.Sprintf(msg, args...))
}

func (l *colorLogger) Error(msg string, args ...any) {
	fmt.Fprintln(l.out, l.errc.Sprint("error: ")+fmt.Sprintf(msg, args...))
}
