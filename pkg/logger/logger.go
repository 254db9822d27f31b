package logger

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

const (
	White = iota
	Black = iota + 30
	Red
	Green
	Yellow
	Blue
	Purple
	Cyan
	Grey
)

// Level is a logging severity. Messages below the logger's
// level are dropped.
type Level int

const (
	LevelTrace Level = iota + 1
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var colors = map[int]string{
	White:  "\033[0m",
	Black:  "\033[30m",
	Red:    "\033[31m",
	Green:  "\033[32m",
	Yellow: "\033[33m",
	Blue:   "\033[34m",
	Purple: "\033[35m",
	Cyan:   "\033[36m",
	Grey:   "\033[37m",
}

var levels = map[Level][2]string{
	LevelTrace: {colors[Grey], "TRCE"},
	LevelDebug: {colors[Grey], "DBUG"},
	LevelInfo:  {colors[Blue], "INFO"},
	LevelWarn:  {colors[Yellow], "WARN"},
	LevelError: {colors[Red], "EROR"},
}

var levelNames = map[string]Level{
	"trace": LevelTrace,
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
	"off":   LevelOff,
}

// ParseLevel maps a level name (trace, debug, info, warn, error, off)
// onto a Level
func ParseLevel(name string) (Level, error) {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Newf("logger: unknown level %q", name)
	}
	return lvl, nil
}

// DefaultLogger writes info and above to stderr
var DefaultLogger = NewLogger(os.Stderr, LevelInfo)

// Logger is a small levelled logger. Arguments are treated as unsafe
// (user data) unless wrapped with redact.Safe, so a logger in redacting
// mode never prints element payloads.
type Logger struct {
	lock   sync.Mutex
	log    *log.Logger
	buf    *bytes.Buffer
	level  Level
	color  bool
	redact bool
}

// NewLogger returns a logger writing to w that drops messages below level
func NewLogger(w io.Writer, level Level) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		log:   log.New(w, "", log.LstdFlags),
		buf:   new(bytes.Buffer),
		level: level,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewLogger(io.Discard, LevelOff)
}

func (l *Logger) logInternal(level Level, format string, args ...interface{}) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if level < l.level {
		return
	}
	levelInfo := levels[level]
	l.buf.Reset()
	l.buf.WriteString("| ")
	if l.color {
		l.buf.WriteString(levelInfo[0])
	}
	l.buf.WriteString(levelInfo[1])
	if l.color {
		l.buf.WriteString(colors[White])
	}
	l.buf.WriteString(" | ")
	msg := redact.Sprintf(format, args...)
	if l.redact {
		l.buf.WriteString(string(msg.Redact()))
	} else {
		l.buf.WriteString(msg.StripMarkers())
	}
	l.log.Print(l.buf.String())
}

// SetOutput changes the destination writer
func (l *Logger) SetOutput(w io.Writer) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.log.SetOutput(w)
}

// SetFlags sets the standard log flags (date, time, ...) of the underlying writer
func (l *Logger) SetFlags(flags int) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.log.SetFlags(flags)
}

func (l *Logger) SetLevel(level Level) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.level = level
}

// SetColor toggles ANSI colouring of the level prefix
func (l *Logger) SetColor(ok bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.color = ok
}

// SetRedact makes the logger replace unsafe arguments with a redaction marker
func (l *Logger) SetRedact(ok bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.redact = ok
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.logInternal(LevelTrace, format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logInternal(LevelDebug, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.logInternal(LevelInfo, format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logInternal(LevelWarn, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logInternal(LevelError, format, args...)
}
