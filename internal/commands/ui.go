package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd opens the interactive window.
type UICmd struct{}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return []string{"tui"} }
func (c *UICmd) Synopsis() string   { return "Open the interactive to-do window" }
func (c *UICmd) Usage() string      { return "todo ui" }
func (c *UICmd) NeedsSession() bool { return true }
func (c *UICmd) NeedsAuth() bool    { return false }

// SaveOnClose makes the dispatcher write the file when the window closes,
// changed or not.
func (c *UICmd) SaveOnClose() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	env.Log.Debug("opening window", "tasks", env.Session.Len())
	err := ui.Run(ctx, env.Session, ui.Options{
		DefaultPriority: env.Config.DefaultPriority,
		Output:          out,
	})
	if errors.Is(err, ui.ErrNotTerminal) {
		fmt.Fprintln(errOut, "error: the ui command needs an interactive terminal")
		return exitcode.UserError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
