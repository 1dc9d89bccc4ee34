package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	priority string
	dueDate  string
}

// SetPriority sets the priority flag (for testing).
func (c *AddCmd) SetPriority(p string) {
	c.priority = p
}

// SetDueDate sets the due date flag (for testing).
func (c *AddCmd) SetDueDate(d string) {
	c.dueDate = d
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Add a task" }
func (c *AddCmd) Usage() string      { return "todo add [--priority <p>] [--due <date>] <content...>" }
func (c *AddCmd) NeedsSession() bool { return true }
func (c *AddCmd) NeedsAuth() bool    { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.dueDate, "due", "", "")
	fs.StringVar(&c.dueDate, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	content := strings.Join(args, " ")

	priority := env.Config.DefaultPriority
	if c.priority != "" {
		p, err := task.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid priority: %s (want Low, Medium or High)\n", c.priority)
			return exitcode.UserError
		}
		priority = p
	}

	if _, err := env.Session.Add(content, priority, c.dueDate); err != nil {
		if errors.Is(err, task.ErrEmptyContent) {
			fmt.Fprintln(errOut, "error: please enter content for the task")
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "added %d\n", env.Session.Len())
	}
	return exitcode.Success
}
