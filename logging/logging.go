// Package logging provides the single structured logger shared across the
// runtime core, built on github.com/rs/zerolog. It mirrors the teacher
// corpus's convention of one process-wide logger with named sub-loggers per
// module, rather than passing a *log.Logger value through every
// constructor.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// GlobalLogger is the process-wide logger. It defaults to a human-readable
// console writer on stderr; tests and the CLI entry point may replace its
// output via SetOutput.
var GlobalLogger zerolog.Logger

var mu sync.Mutex

func init() {
	GlobalLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).
		With().
		Timestamp().
		Logger()
}

// SetOutput redirects GlobalLogger (and every future NewSubLogger) to w,
// stripping the console formatting, for callers that want plain or
// captured output. Sub-loggers created before the call keep their old
// writer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	GlobalLogger = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel adjusts the minimum severity GlobalLogger emits, and sets
// zerolog's global level so sub-loggers created earlier (such as the
// package-level ones in forgeruntime and simvm) obey it too.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	zerolog.SetGlobalLevel(level)
	GlobalLogger = GlobalLogger.Level(level)
}

// NewSubLogger returns a child of GlobalLogger with one extra string field,
// used to tag log lines with the module that produced them (e.g.
// NewSubLogger("module", "cheatnet") or NewSubLogger("test", name)).
func NewSubLogger(key, value string) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return GlobalLogger.With().Str(key, value).Logger()
}
