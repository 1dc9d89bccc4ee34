package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/interchange"
	"todo/internal/task"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd implements the import command.
type ImportCmd struct {
	format string
	stdin  io.Reader
}

// SetFormat sets the format flag (for testing).
func (c *ImportCmd) SetFormat(f string) {
	c.format = f
}

// SetStdin sets the reader used for "-" (for testing).
func (c *ImportCmd) SetStdin(r io.Reader) {
	c.stdin = r
}

func (c *ImportCmd) Name() string       { return "import" }
func (c *ImportCmd) Aliases() []string  { return nil }
func (c *ImportCmd) Synopsis() string   { return "Append tasks from a JSON or YAML export" }
func (c *ImportCmd) Usage() string      { return "todo import [--format json|yaml] <file|->" }
func (c *ImportCmd) NeedsSession() bool { return true }
func (c *ImportCmd) NeedsAuth() bool    { return false }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.format, "f", "", "")
}

func (c *ImportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: expected exactly one file to import")
		return exitcode.UserError
	}

	tasks, err := c.read(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: import %s: %s\n", args[0], indentErr(err))
		return exitcode.UserError
	}

	for _, t := range tasks {
		if err := env.Session.Append(t); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	env.Log.Debug("imported tasks", "file", args[0], "count", len(tasks))

	if !env.Config.Quiet {
		fmt.Fprintf(out, "imported %d\n", len(tasks))
	}
	return exitcode.Success
}

func (c *ImportCmd) read(path string) ([]task.Task, error) {
	format := interchange.FormatJSON
	if path != "-" {
		format = interchange.FormatFromPath(path)
	}
	if c.format != "" {
		f, err := interchange.ParseFormat(c.format)
		if err != nil {
			return nil, err
		}
		format = f
	}

	if path == "-" {
		stdin := c.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return interchange.ImportAs(stdin, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return interchange.ImportAs(f, format)
}

// indentErr puts each joined error on its own indented line.
func indentErr(err error) string {
	msg := err.Error()
	if !strings.Contains(msg, "\n") {
		return msg
	}
	return "\n  " + strings.ReplaceAll(msg, "\n", "\n  ")
}
