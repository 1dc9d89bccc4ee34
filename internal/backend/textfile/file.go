// Package textfile stores the task list in a pipe-delimited text file.
package textfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"todo/internal/logging"
	"todo/internal/task"
)

// File implements service.Backend on a single text file.
type File struct {
	path   string
	logger *log.Logger
}

// New creates a backend for path. A nil logger discards output.
func New(path string, logger *log.Logger) *File {
	if logger == nil {
		logger = logging.Discard()
	}
	return &File{path: path, logger: logger}
}

// Load reads all tasks. A missing file yields an empty list.
func (f *File) Load(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Debug("task file not found, starting empty", "path", f.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open task file: %w", err)
	}
	defer file.Close()

	tasks, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	f.logger.Debug("loaded tasks", "path", f.path, "count", len(tasks))
	return tasks, nil
}

// Save overwrites the file with tasks. The content is written to a
// temporary file in the same directory and renamed into place.
func (f *File) Save(ctx context.Context, tasks []task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Encode(tmp, tasks); err != nil {
		tmp.Close()
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}

	f.logger.Debug("saved tasks", "path", f.path, "count", len(tasks))
	return nil
}
