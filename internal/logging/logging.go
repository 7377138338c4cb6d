// Package logging provides the leveled logger shared by every component.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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

// ParseLevel maps a config level name to a Level. Unknown names fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// StdLogger writes through the standard log package.
// Format is "text" (default) or "json".
type StdLogger struct {
	Min    Level
	Format string
	out    *log.Logger
}

// New builds a StdLogger writing to w. A nil w means stderr.
func New(w io.Writer, level, format string) *StdLogger {
	if w == nil {
		w = os.Stderr
	}
	l := &StdLogger{Min: ParseLevel(level), Format: strings.ToLower(format)}
	if l.Format == "json" {
		l.out = log.New(w, "", 0)
	} else {
		l.out = log.New(w, "", log.LstdFlags)
	}
	return l
}

func (l *StdLogger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args...) }
func (l *StdLogger) Info(msg string, args ...any)  { l.write(LevelInfo, msg, args...) }
func (l *StdLogger) Warn(msg string, args ...any)  { l.write(LevelWarn, msg, args...) }
func (l *StdLogger) Error(msg string, args ...any) { l.write(LevelError, msg, args...) }

func (l *StdLogger) write(level Level, msg string, args ...any) {
	if level < l.Min {
		return
	}
	text := fmt.Sprintf(msg, args...)
	if l.Format != "json" {
		l.out.Printf("%s: %s", level, text)
		return
	}
	b, err := json.Marshal(struct {
		Time  string `json:"time"`
		Level string `json:"level"`
		Msg   string `json:"msg"`
	}{time.Now().UTC().Format(time.RFC3339Nano), level.String(), text})
	if err != nil {
		l.out.Printf(`{"level":"ERROR","msg":%q}`, err.Error())
		return
	}
	l.out.Print(string(b))
}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}

// Discard drops everything. Used by tests and by the TUI while it owns the terminal.
var Discard Logger = discard{}
