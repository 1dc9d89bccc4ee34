// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/task"
)

// FakeBackend is an in-memory implementation of service.Backend for testing.
type FakeBackend struct {
	mu    sync.Mutex
	tasks []task.Task

	// Saves counts successful Save calls.
	Saves int

	// Error injection for testing
	LoadErr error
	SaveErr error
}

// NewFakeBackend creates a FakeBackend holding tasks.
func NewFakeBackend(tasks ...task.Task) *FakeBackend {
	f := &FakeBackend{}
	f.tasks = append(f.tasks, tasks...)
	return f
}

// AddTask appends an open task to the stored list.
func (f *FakeBackend) AddTask(content string, priority task.Priority, dueDate string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task.Task{Content: content, Priority: priority, DueDate: dueDate})
}

// Stored returns a copy of the stored list.
func (f *FakeBackend) Stored() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]task.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Load implements service.Backend.
func (f *FakeBackend) Load(ctx context.Context) ([]task.Task, error) {
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	return f.Stored(), nil
}

// Save implements service.Backend.
func (f *FakeBackend) Save(ctx context.Context, tasks []task.Task) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = make([]task.Task, len(tasks))
	copy(f.tasks, tasks)
	f.Saves++
	return nil
}

// FakePublisher records pushed tasks for testing.
type FakePublisher struct {
	mu      sync.Mutex
	Lists   map[string][]task.Task // list name -> pushed tasks
	PushErr error
}

// NewFakePublisher creates an empty FakePublisher.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Lists: make(map[string][]task.Task)}
}

// Push implements service.Publisher.
func (p *FakePublisher) Push(ctx context.Context, listName string, tasks []task.Task) (int, error) {
	if p.PushErr != nil {
		return 0, p.PushErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Lists[listName] = append(p.Lists[listName], tasks...)
	return len(tasks), nil
}
