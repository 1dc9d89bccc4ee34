// Package cli parses the command line and runs commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/backend/googletasks"
	"todo/internal/backend/textfile"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
)

// ErrNotLoggedIn is returned by GoogleTasksPublisher when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in (run: todo login)")

// BackendFactory creates the storage backend for the task list.
type BackendFactory func(cfg *config.Config, logger *log.Logger) (service.Backend, error)

// PublisherFactory creates the remote publisher used by push.
type PublisherFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Publisher, error)

// TextFileBackend stores the list in cfg.TasksFile.
func TextFileBackend(cfg *config.Config, logger *log.Logger) (service.Backend, error) {
	return textfile.New(cfg.TasksFile, logger), nil
}

// GoogleTasksPublisher pushes to Google Tasks with the stored credentials.
func GoogleTasksPublisher(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Publisher, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%s not found in %s", config.OAuthClientFile, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, ErrNotLoggedIn
	}
	client, err := googletasks.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry  *commands.Registry
	backend   BackendFactory
	publisher PublisherFactory
}

// NewDispatcher creates a dispatcher over registry using the given factories.
func NewDispatcher(registry *commands.Registry, backend BackendFactory, publisher PublisherFactory) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		backend:   backend,
		publisher: publisher,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args lists the tasks.
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	tasksFile string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.tasksFile, "file", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if common.tasksFile != "" {
		cfg.TasksFile = common.tasksFile
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	logger := logging.New(errOut, cfg.Debug)
	logger.Debug("dispatch", "command", cmd.Name(), "config", cfg.Dir, "file", cfg.TasksFile)

	env := &commands.Env{Config: cfg, Log: logger}

	if cmd.NeedsAuth() {
		env.Publisher, err = d.publisher(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return exitcode.AuthError
		}
	}

	if !cmd.NeedsSession() {
		return cmd.Run(ctx, env, positionalArgs, out, errOut)
	}

	backend, err := d.backend(cfg, logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %s\n", err)
		return exitcode.StorageError
	}

	opts := []service.SessionOption{service.WithLogger(logger)}
	if s, ok := cmd.(commands.SaveOnCloser); ok && s.SaveOnClose() {
		opts = append(opts, service.WithSaveOnClose())
	}
	env.Session, err = service.Open(ctx, backend, opts...)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %s\n", err)
		return exitcode.StorageError
	}

	code := cmd.Run(ctx, env, positionalArgs, out, errOut)

	// A failed command that changed nothing leaves the file alone.
	if code != exitcode.Success && !env.Session.Dirty() {
		return code
	}
	if err := env.Session.Close(context.WithoutCancel(ctx)); err != nil {
		fmt.Fprintf(errOut, "error: storage error: %s\n", err)
		return exitcode.StorageError
	}
	return code
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + name
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
		return "unknown flag: " + name
	}
	return errStr
}
