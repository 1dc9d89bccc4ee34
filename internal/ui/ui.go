// Package ui provides the interactive to-do window.
package ui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/service"
	"todo/internal/task"
)

// ErrNotTerminal is returned by Run when the output is not a terminal.
var ErrNotTerminal = errors.New("ui requires a TTY")

// Options configures Run.
type Options struct {
	// DefaultPriority preselects the priority selector.
	DefaultPriority task.Priority

	// Input and Output default to os.Stdin and os.Stdout.
	Input  io.Reader
	Output io.Writer
}

// Run shows the window until the user closes it. Changes go straight to
// sess; saving is left to the caller.
func Run(ctx context.Context, sess *service.Session, opts Options) error {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if !IsTTY(out) {
		return ErrNotTerminal
	}

	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}

	program := tea.NewProgram(newModel(sess, opts.DefaultPriority), progOpts...)
	if _, err := program.Run(); err != nil {
		// Interrupted by a signal; the session is still saved.
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
