// Package service defines the backend-agnostic interfaces for task
// persistence and publishing, and the per-run application session.
package service

import (
	"context"

	"todo/internal/task"
)

// Backend loads and saves the whole ordered task list.
// Commands never touch storage files directly.
type Backend interface {
	// Load returns all stored tasks in order.
	// A backend with nothing stored returns an empty list, not an error.
	Load(ctx context.Context) ([]task.Task, error)

	// Save replaces the stored list with tasks.
	Save(ctx context.Context, tasks []task.Task) error
}

// Publisher mirrors tasks into a remote task service.
type Publisher interface {
	// Push copies tasks into the named remote list (the default list when
	// listName is empty) and returns the number of tasks created.
	Push(ctx context.Context, listName string, tasks []task.Task) (int, error)
}
