package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/backend/googletasks"
	"todo/internal/exitcode"
)

func init() {
	Register(&PushCmd{})
}

// PushCmd implements the push command.
type PushCmd struct {
	list string
}

// SetList sets the list flag (for testing).
func (c *PushCmd) SetList(name string) {
	c.list = name
}

func (c *PushCmd) Name() string       { return "push" }
func (c *PushCmd) Aliases() []string  { return nil }
func (c *PushCmd) Synopsis() string   { return "Copy all tasks to Google Tasks" }
func (c *PushCmd) Usage() string      { return "todo push [--list <list-name>]" }
func (c *PushCmd) NeedsSession() bool { return true }
func (c *PushCmd) NeedsAuth() bool    { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.list, "list", "", "")
}

func (c *PushCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	listName := c.list
	if listName == "" {
		listName = env.Config.GoogleList
	}

	tasks := env.Session.Tasks()
	if len(tasks) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	n, err := env.Publisher.Push(ctx, listName, tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if n > 0 {
			fmt.Fprintf(errOut, "pushed %d of %d tasks before the failure\n", n, len(tasks))
		}
		if errors.Is(err, googletasks.ErrAuth) {
			return exitcode.AuthError
		}
		if errors.Is(err, googletasks.ErrAmbiguousList) {
			return exitcode.UserError
		}
		return exitcode.BackendError
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "pushed %d tasks\n", n)
	}
	return exitcode.Success
}
