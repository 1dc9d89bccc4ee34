package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/task"
	"todo/internal/testutil"
)

func backendFactory(b *testutil.FakeBackend) cli.BackendFactory {
	return func(cfg *config.Config, logger *log.Logger) (service.Backend, error) {
		return b, nil
	}
}

func publisherFactory(p *testutil.FakePublisher, err error) cli.PublisherFactory {
	return func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Publisher, error) {
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// run dispatches args with an isolated config dir.
func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv(config.TasksFileEnv, "")

	var outBuf, errBuf bytes.Buffer
	full := args
	if len(args) > 0 {
		full = append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	}
	code = d.Run(context.Background(), full, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func newDispatcher(b *testutil.FakeBackend) *cli.Dispatcher {
	return cli.NewDispatcher(commands.DefaultRegistry, backendFactory(b), publisherFactory(testutil.NewFakePublisher(), nil))
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, newDispatcher(testutil.NewFakeBackend()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := newDispatcher(testutil.NewFakeBackend())

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, newDispatcher(testutil.NewFakeBackend()), "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "todo add", "todo push", "--file <path>"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected help to contain %q, got:\n%s", want, stdout)
		}
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, _, code := run(t, newDispatcher(testutil.NewFakeBackend()), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, newDispatcher(testutil.NewFakeBackend()), "list", "--bogus")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown flag: -bogus\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FlagMissingValue(t *testing.T) {
	_, stderr, code := run(t, newDispatcher(testutil.NewFakeBackend()), "add", "--due")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: flag needs an argument: -due\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.AddTask("Buy milk", task.PriorityHigh, "2024-01-01")
	d := newDispatcher(backend)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.TasksFileEnv, "")
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%s)", code, stderr.String())
	}
	expected := "1. Buy milk - Priority: High - Due Date: 2024-01-01 - Incomplete\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
	if backend.Saves != 0 {
		t.Errorf("listing should not save, got %d saves", backend.Saves)
	}
}

func TestDispatcher_AddSavesOnce(t *testing.T) {
	backend := testutil.NewFakeBackend()
	d := newDispatcher(backend)

	stdout, stderr, code := run(t, d, "add", "-p", "High", "--due", "2024-01-01", "Buy", "milk")

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%s)", code, stderr)
	}
	if stdout != "added 1\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	want := task.Task{Content: "Buy milk", Priority: task.PriorityHigh, DueDate: "2024-01-01"}
	stored := backend.Stored()
	if len(stored) != 1 || stored[0] != want {
		t.Errorf("expected %+v stored, got %+v", want, stored)
	}
	if backend.Saves != 1 {
		t.Errorf("expected 1 save, got %d", backend.Saves)
	}
}

func TestDispatcher_AddEmptyContent(t *testing.T) {
	backend := testutil.NewFakeBackend()
	_, stderr, code := run(t, newDispatcher(backend), "add")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: please enter content for the task\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if backend.Saves != 0 {
		t.Errorf("expected no save, got %d", backend.Saves)
	}
}

func TestDispatcher_LoadError(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.LoadErr = errors.New("boom")
	_, stderr, code := run(t, newDispatcher(backend), "list")

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if stderr != "error: storage error: load tasks: boom\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_SaveError(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.SaveErr = errors.New("read-only file system")
	_, stderr, code := run(t, newDispatcher(backend), "add", "x")

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if !strings.Contains(stderr, "error: storage error: save tasks: read-only file system") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_DoneOutOfRange(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.AddTask("a", task.PriorityLow, "")
	_, stderr, code := run(t, newDispatcher(backend), "done", "2")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: 2\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if backend.Saves != 0 {
		t.Errorf("expected no save, got %d", backend.Saves)
	}
}

func TestDispatcher_PushAuthError(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.AddTask("a", task.PriorityLow, "")
	d := cli.NewDispatcher(commands.DefaultRegistry, backendFactory(backend), publisherFactory(nil, cli.ErrNotLoggedIn))

	_, stderr, code := run(t, d, "push")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: auth error: not logged in (run: todo login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_Push(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.AddTask("a", task.PriorityLow, "")
	pub := testutil.NewFakePublisher()
	d := cli.NewDispatcher(commands.DefaultRegistry, backendFactory(backend), publisherFactory(pub, nil))

	stdout, stderr, code := run(t, d, "push", "--list", "Errands")

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (%s)", code, stderr)
	}
	if stdout != "pushed 1 tasks\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if len(pub.Lists["Errands"]) != 1 {
		t.Errorf("expected task pushed to Errands, got %v", pub.Lists)
	}
}

func TestDispatcher_UINeedsTerminal(t *testing.T) {
	backend := testutil.NewFakeBackend()
	_, stderr, code := run(t, newDispatcher(backend), "ui")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "interactive terminal") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if backend.Saves != 0 {
		t.Errorf("expected no save when the window never opened, got %d", backend.Saves)
	}
}

func TestDispatcher_TextFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	d := cli.NewDispatcher(commands.DefaultRegistry, cli.TextFileBackend, cli.GoogleTasksPublisher)

	if _, stderr, code := run(t, d, "add", "--file", path, "-p", "high", "-d", "2024-01-01", "Buy milk"); code != exitcode.Success {
		t.Fatalf("add failed: %d %s", code, stderr)
	}
	if _, stderr, code := run(t, d, "add", "--file", path, "--quiet", "Walk dog"); code != exitcode.Success {
		t.Fatalf("add failed: %d %s", code, stderr)
	}
	if _, stderr, code := run(t, d, "done", "--file", path, "2."); code != exitcode.Success {
		t.Fatalf("done failed: %d %s", code, stderr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read tasks file: %v", err)
	}
	expected := "Buy milk|High|2024-01-01|False\nWalk dog|Low||True\n"
	if string(data) != expected {
		t.Errorf("expected %q, got %q", expected, string(data))
	}

	stdout, _, code := run(t, d, "list", "--file", path)
	if code != exitcode.Success {
		t.Fatalf("list failed: %d", code)
	}
	want := "1. Buy milk - Priority: High - Due Date: 2024-01-01 - Incomplete\n" +
		"2. Walk dog - Priority: Low - Due Date:  - Completed\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestDispatcher_TextFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	if err := os.WriteFile(path, []byte("ok|Low||False\nbroken line\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, cli.TextFileBackend, cli.GoogleTasksPublisher)

	_, stderr, code := run(t, d, "list", "--file", path)
	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if !strings.Contains(stderr, "line 2") {
		t.Errorf("expected line number in %q", stderr)
	}
}

func TestDispatcher_PushWithoutCredentials(t *testing.T) {
	backend := testutil.NewFakeBackend()
	d := cli.NewDispatcher(commands.DefaultRegistry, backendFactory(backend), cli.GoogleTasksPublisher)

	_, stderr, code := run(t, d, "push")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "oauth_client.json not found") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
