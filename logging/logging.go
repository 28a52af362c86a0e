// Package logging configures the process-wide apex logger with a colorized
// handler. All packages log through the helpers here.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// ANSI color per level.
const (
	colorReset = "\x1b[0m"
	colorInfo  = "\x1b[32m" // green
	colorWarn  = "\x1b[33m" // yellow
	colorError = "\x1b[31m" // red
	colorDebug = "\x1b[34m" // blue
)

// Init installs the handler and sets the level. The level argument wins over
// the LAKECTL_LOG environment variable; an empty or unknown level means info.
func Init(level string) {
	if level == "" {
		level = os.Getenv("LAKECTL_LOG")
	}
	var apexLevel log.Level
	switch strings.ToLower(level) {
	case "debug":
		apexLevel = log.DebugLevel
	case "warn":
		apexLevel = log.WarnLevel
	case "error":
		apexLevel = log.ErrorLevel
	default:
		apexLevel = log.InfoLevel
	}
	log.SetHandler(&handler{out: os.Stdout})
	log.SetLevel(apexLevel)
}

// handler writes "[LEVEL] timestamp - message" lines with the level name
// colorized, matching the tool's historical output format.
type handler struct {
	mu  sync.Mutex
	out *os.File
}

// HandleLog implements log.Handler.
func (h *handler) HandleLog(e *log.Entry) error {
	color := colorReset
	switch e.Level {
	case log.DebugLevel:
		color = colorDebug
	case log.InfoLevel:
		color = colorInfo
	case log.WarnLevel:
		color = colorWarn
	case log.ErrorLevel, log.FatalLevel:
		color = colorError
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "[%s%s%s] %s - %s\n",
		color, strings.ToUpper(e.Level.String()), colorReset,
		time.Now().Format("2006-01-02 15:04:05"), e.Message)
	return err
}

// Debugf logs at debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry carrying the error field.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
