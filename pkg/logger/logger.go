package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process logger. Setup replaces it at startup.
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Setup configures Log. format is "json" or "console"; unknown levels
// fall back to info.
func Setup(level, format string) zerolog.Logger {
	Log = New(os.Stderr, level, format)
	return Log
}

func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

var dedup = &deduplicator{
	flushDelay: 2 * time.Second,
	emit: func(msg string) {
		Log.Info().Msg(msg)
	},
}

type deduplicator struct {
	mu         sync.Mutex
	lastMsg    string
	count      int
	flushDelay time.Duration
	timer      *time.Timer
	emit       func(string)
}

func (d *deduplicator) flush() {
	if d.count == 0 {
		return
	}
	if d.count == 1 {
		d.emit(d.lastMsg)
	} else {
		d.emit(fmt.Sprintf("%s (%d)", d.lastMsg, d.count))
	}
	d.count = 0
	d.lastMsg = ""
}

func (d *deduplicator) log(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if msg != d.lastMsg {
		d.flush()
		d.lastMsg = msg
	}
	d.count++

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.flushDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.flush()
	})
}

// Dedup logs at info level, collapsing identical consecutive messages into
// one line with a count once they stop repeating.
func Dedup(format string, args ...any) {
	dedup.log(fmt.Sprintf(format, args...))
}
