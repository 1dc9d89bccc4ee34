package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"destroy"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "todo rm <n>" }
func (c *RmCmd) NeedsSession() bool { return true }
func (c *RmCmd) NeedsAuth() bool    { return false }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runSelected(env, args, out, errOut, (*service.Session).Remove)
}
