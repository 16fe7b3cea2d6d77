package logx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
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
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "debug"
	}
}

// ParseLevel maps a level name to a Level. Unknown names yield LevelInfo.
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

// Fields are structured attributes attached to a log line.
type Fields map[string]any

const maxMsgLen = 2 * 1024

var (
	mu       sync.RWMutex
	minLevel           = LevelWarn
	out      io.Writer = io.Discard
	secrets            = make([]string, 0)
	verbose  bool
)

// SetOutput sets the destination for logs. nil discards them.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	mu.Lock()
	out = w
	mu.Unlock()
}

// SetMinLevel sets the minimum level to emit.
func SetMinLevel(l Level) { mu.Lock(); minLevel = l; mu.Unlock() }

// SetVerbose disables truncation of long messages and fields.
func SetVerbose(v bool) { mu.Lock(); verbose = v; mu.Unlock() }

// RegisterSecret adds a string to be redacted in outputs.
func RegisterSecret(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	mu.Lock()
	secrets = append(secrets, s)
	mu.Unlock()
}

// ToFile appends debug-level logs to path and returns the file so the
// caller can close it on exit.
func ToFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	mu.Lock()
	out = f
	minLevel = LevelDebug
	mu.Unlock()
	return f, nil
}

// StdlogWriter wraps writes as JSON lines at a fixed level, so the
// standard log package can be pointed at it.
func StdlogWriter(level Level, w io.Writer) io.Writer {
	if w == nil {
		w = os.Stderr
	}
	return &stdlogWriter{level: level, w: w}
}

type stdlogWriter struct {
	level Level
	w     io.Writer
}

func (sw *stdlogWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if err := emit(sw.w, sw.level, string(line), nil); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) { logf(LevelDebug, format, args...) }

// Infof logs an info message.
func Infof(format string, args ...any) { logf(LevelInfo, format, args...) }

// Warnf logs a warning message.
func Warnf(format string, args ...any) { logf(LevelWarn, format, args...) }

// Errorf logs an error message.
func Errorf(format string, args ...any) { logf(LevelError, format, args...) }

func logf(lvl Level, format string, args ...any) {
	mu.RLock()
	w := out
	mu.RUnlock()
	_ = emit(w, lvl, fmt.Sprintf(format, args...), nil)
}

// Entry carries fields for a single structured log call.
type Entry struct {
	fields Fields
}

// With starts a structured entry.
func With(f Fields) Entry { return Entry{fields: f} }

// Debug logs msg with the entry's fields at debug level.
func (e Entry) Debug(msg string) { e.log(LevelDebug, msg) }

// Info logs msg with the entry's fields at info level.
func (e Entry) Info(msg string) { e.log(LevelInfo, msg) }

// Warn logs msg with the entry's fields at warn level.
func (e Entry) Warn(msg string) { e.log(LevelWarn, msg) }

// Error logs msg with the entry's fields at error level.
func (e Entry) Error(msg string) { e.log(LevelError, msg) }

func (e Entry) log(lvl Level, msg string) {
	mu.RLock()
	w := out
	mu.RUnlock()
	fields := make(Fields, len(e.fields))
	for k, v := range e.fields {
		fields[k] = v
	}
	_ = emit(w, lvl, msg, fields)
}

type entry struct {
	TS     string `json:"ts"`
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Fields Fields `json:"fields,omitempty"`
}

func emit(w io.Writer, lvl Level, msg string, fields Fields) error {
	mu.RLock()
	ml := minLevel
	v := verbose
	mu.RUnlock()
	if lvl < ml {
		return nil
	}
	msg = redact(msg)
	if !v {
		msg = truncate(msg, maxMsgLen)
	}
	for k, val := range fields {
		switch x := val.(type) {
		case string:
			x = redact(x)
			if !v {
				x = truncate(x, maxMsgLen)
			}
			fields[k] = x
		case error:
			fields[k] = redact(x.Error())
		}
	}
	b, err := json.Marshal(entry{
		TS:     time.Now().Format(time.RFC3339Nano),
		Level:  lvl.String(),
		Msg:    msg,
		Fields: fields,
	})
	if err != nil {
		_, err2 := io.WriteString(w, msg+"\n")
		return err2
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func redact(s string) string {
	mu.RLock()
	defer mu.RUnlock()
	for _, sec := range secrets {
		s = strings.ReplaceAll(s, sec, "[REDACTED]")
	}
	return s
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	// keep the tail for context
	const suffix = "… [truncated]"
	if limit > len(suffix)+10 {
		return s[:limit-len(suffix)-10] + suffix + s[len(s)-10:]
	}
	return s[:limit]
}
