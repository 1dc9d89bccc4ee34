package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/exitcode"
	"todo/internal/interchange"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	output string
}

// SetFormat sets the format flag (for testing).
func (c *ExportCmd) SetFormat(f string) {
	c.format = f
}

// SetOutput sets the output flag (for testing).
func (c *ExportCmd) SetOutput(path string) {
	c.output = path
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write all tasks as JSON, YAML, CSV or PDF" }
func (c *ExportCmd) Usage() string {
	return "todo export [--format json|yaml|csv|pdf] [--output <file>]"
}
func (c *ExportCmd) NeedsSession() bool { return true }
func (c *ExportCmd) NeedsAuth() bool    { return false }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.format, "f", "", "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := interchange.FormatJSON
	if c.output != "" {
		format = interchange.FormatFromPath(c.output)
	}
	if c.format != "" {
		f, err := interchange.ParseFormat(c.format)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		format = f
	}

	if c.output == "" {
		if err := interchange.ExportAs(out, env.Session.Tasks(), format); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.StorageError
		}
		return exitcode.Success
	}

	if err := c.writeFile(env, format); err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
	env.Log.Debug("exported tasks", "file", c.output, "format", format)
	if !env.Config.Quiet {
		fmt.Fprintf(out, "exported %d\n", env.Session.Len())
	}
	return exitcode.Success
}

func (c *ExportCmd) writeFile(env *Env, format interchange.Format) error {
	f, err := os.Create(c.output)
	if err != nil {
		return err
	}
	if err := interchange.ExportAs(f, env.Session.Tasks(), format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
