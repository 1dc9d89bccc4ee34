package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"todo/internal/logging"
	"todo/internal/task"
)

// Session is the application state for one run: the loaded store plus the
// backend it is saved to when the run ends.
type Session struct {
	backend    Backend
	store      *task.Store
	logger     *log.Logger
	dirty      bool
	saveAlways bool
	closed     bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSaveOnClose makes Close save even when nothing changed.
func WithSaveOnClose() SessionOption {
	return func(s *Session) {
		s.saveAlways = true
	}
}

// Open loads the task list from backend.
func Open(ctx context.Context, backend Backend, opts ...SessionOption) (*Session, error) {
	s := &Session{
		backend: backend,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	s.store = task.NewStore(tasks...)
	s.logger.Debug("session opened", "tasks", s.store.Len())
	return s, nil
}

// Tasks returns the current tasks in order.
func (s *Session) Tasks() []task.Task {
	return s.store.Tasks()
}

// Len returns the number of tasks.
func (s *Session) Len() int {
	return s.store.Len()
}

// Add appends a new open task.
func (s *Session) Add(content string, priority task.Priority, dueDate string) (task.Task, error) {
	t, err := s.store.Add(content, priority, dueDate)
	if err != nil {
		return task.Task{}, err
	}
	s.dirty = true
	s.logger.Debug("task added", "index", s.store.Len()-1, "priority", t.Priority)
	return t, nil
}

// Append adds an existing task, keeping its completion state.
func (s *Session) Append(t task.Task) error {
	if err := s.store.Append(t); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Remove deletes the task at 0-based position i.
// Returns false when i selects nothing.
func (s *Session) Remove(i int) bool {
	if !s.store.Remove(i) {
		return false
	}
	s.dirty = true
	s.logger.Debug("task removed", "index", i)
	return true
}

// Complete marks the task at 0-based position i completed.
// Returns false when i selects nothing.
func (s *Session) Complete(i int) bool {
	if !s.store.MarkCompleted(i) {
		return false
	}
	s.dirty = true
	s.logger.Debug("task completed", "index", i)
	return true
}

// Dirty reports whether the list changed since it was loaded.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Close saves the list to the backend. Without WithSaveOnClose an
// unchanged list is not written. Close is idempotent.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	if !s.dirty && !s.saveAlways {
		s.logger.Debug("session closed without changes")
		return nil
	}
	if err := s.backend.Save(ctx, s.store.Tasks()); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.dirty = false
	s.logger.Debug("session saved", "tasks", s.store.Len())
	return nil
}
