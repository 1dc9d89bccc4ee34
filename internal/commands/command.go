// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/service"
)

// Env carries everything a command may use during one run.
type Env struct {
	// Config is always set.
	Config *config.Config

	// Session is the loaded task list; nil unless NeedsSession is true.
	Session *service.Session

	// Publisher is the remote task service; nil unless NeedsAuth is true.
	Publisher service.Publisher

	// Log is the debug logger; never nil.
	Log *log.Logger
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsSession returns true if the command reads or changes the task list.
	// The dispatcher loads the list before Run and saves it afterwards.
	NeedsSession() bool

	// NeedsAuth returns true if the command talks to Google Tasks.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional args and returns the exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// SaveOnCloser is implemented by commands whose session must be saved when
// they finish even if nothing changed.
type SaveOnCloser interface {
	SaveOnClose() bool
}
