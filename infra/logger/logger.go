package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/teambalance/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards every message.
type NopLogger = corelogger.Nop

var (
	outMu sync.RWMutex
	out   io.Writer = os.Stderr
)

// SetOutput changes the writer used by loggers created afterwards. The CLI
// keeps stdout for results, so the default is stderr.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	out = w
}

func output() io.Writer {
	outMu.RLock()
	defer outMu.RUnlock()
	return out
}

// SetLevel sets the minimum level of every logger from its name: debug,
// info, warn or error. An empty name keeps the current level.
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// New returns a Logger for the given component. The environment is detected via
// the APP_ENV variable.
func New(component string) Logger {
	return NewWithWriter(component, output())
}
