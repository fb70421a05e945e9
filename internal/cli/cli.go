package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/matzehuels/pngicons/pkg/errors"
)

const appName = "pngicons"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out         *printer  // per-icon status lines
	errOut      io.Writer // logs and spinner
	interactive bool      // errOut is a terminal, so the spinner may draw
}

// New creates a CLI writing status lines to out and logs to errOut.
func New(out, errOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(errOut, level),
		out:         newPrinter(out),
		errOut:      errOut,
		interactive: isTerminal(errOut),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// ExitCode reports err on stderr and returns the process exit status:
// 0 for nil, 130 when interrupted, 1 otherwise. Fatal errors print only
// their message; the code and cause go to the debug log.
func (c *CLI) ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130 // Standard shell convention for SIGINT
	case errors.IsFatal(err):
		c.Logger.Debug("fatal error", "code", errors.GetCode(err), "err", err)
		fmt.Fprintln(c.errOut, errors.UserMessage(err))
	default:
		fmt.Fprintln(c.errOut, err)
	}
	return 1
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
