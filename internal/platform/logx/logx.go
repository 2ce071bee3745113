// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// EnvLevel es la variable de entorno que fija el nivel inicial.
const EnvLevel = "WEBFIGSCAN_LOG_LEVEL"

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
		return "unknown"
	}
}

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

// core es compartido entre un logger y sus clones With(), así SetLevel
// afecta a todos los scopes derivados.
type core struct {
	mu  sync.Mutex
	lvl Level
	lg  *log.Logger
}

type simpleLogger struct {
	c     *core
	scope []string // pares key=value fijos
}

// New crea un logger sobre stderr con el nivel de WEBFIGSCAN_LOG_LEVEL.
func New() Logger {
	return NewWithWriter(os.Stderr, ParseLevel(os.Getenv(EnvLevel)))
}

// NewWithLevel creates a stderr logger with a specific log level.
func NewWithLevel(lvl Level) Logger {
	return NewWithWriter(os.Stderr, lvl)
}

// NewWithWriter creates a logger that writes to w.
func NewWithWriter(w io.Writer, lvl Level) Logger {
	return &simpleLogger{
		c: &core{lvl: lvl, lg: log.New(w, "", 0)},
	}
}

// NewSilent creates a logger that only outputs errors.
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

// Nop descarta todo; útil en tests.
func Nop() Logger {
	return NewWithWriter(io.Discard, LevelError+1)
}

func (s *simpleLogger) With(kv ...any) Logger {
	return &simpleLogger{
		c:     s.c,
		scope: append(append([]string{}, s.scope...), kvPairs(kv...)...),
	}
}

func (s *simpleLogger) SetLevel(lvl Level) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.c.lvl = lvl
}

func (s *simpleLogger) Debug(msg string, kv ...any) { s.log(LevelDebug, "DBG", msg, kv...) }
func (s *simpleLogger) Info(msg string, kv ...any)  { s.log(LevelInfo, "INF", msg, kv...) }
func (s *simpleLogger) Warn(msg string, kv ...any)  { s.log(LevelWarn, "WRN", msg, kv...) }
func (s *simpleLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	kv = append([]any{"error", err.Error()}, kv...)
	s.log(LevelError, "ERR", "", kv...)
}

func (s *simpleLogger) log(l Level, tag, msg string, kv ...any) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if l < s.c.lvl {
		return
	}

	fields := append([]string{}, s.scope...)
	fields = append(fields, kvPairs(kv...)...)

	var b strings.Builder
	b.WriteString(time.Now().Format("15:04:05"))
	b.WriteByte(' ')
	b.WriteString(tag)
	if strings.TrimSpace(msg) != "" {
		b.WriteByte(' ')
		b.WriteString(msg)
	}
	if len(fields) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(fields, " "))
	}
	s.c.lg.Println(b.String())
}

func kvPairs(kv ...any) []string {
	out := make([]string, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		var v any = "(missing)"
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		out = append(out, fmt.Sprintf("%v=%v", kv[i], v))
	}
	return out
}

// ParseLevel convierte un nombre de nivel; valores desconocidos caen en info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
