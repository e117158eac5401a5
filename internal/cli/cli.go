// Package cli holds the pieces shared by the command line tools
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is an error that carries the exit code of the process
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Usage reports a command line usage error
func Usage(format string, args ...interface{}) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse parses args into fs. It reports whether the program should exit
// cleanly because help was requested.
func Parse(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return true, nil
		}
		return false, Usage("%v", err)
	}
	if fs.NArg() > 0 {
		return false, Usage("unexpected arguments %v", fs.Args())
	}
	return false, nil
}

// NewLogger returns a text logger writing to w at the named level
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil, Usage("invalid log-level %q: must be 'debug', 'info', "+
			"'warn', or 'error'", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})),
		nil
}
