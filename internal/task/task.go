// Package task defines the to-do record and the ordered in-memory list.
package task

import (
	"errors"
	"fmt"
	"strings"
)

// Priority is one of a fixed set of task priorities.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is used when no priority is chosen.
const DefaultPriority = PriorityLow

// Priorities lists all priorities in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ErrEmptyContent indicates a task was given no content.
var ErrEmptyContent = errors.New("content required")

// ErrInvalidPriority indicates a priority outside the enumerated set.
var ErrInvalidPriority = errors.New("invalid priority")

// ErrInvalidDueDate indicates a due date the task file cannot hold.
var ErrInvalidDueDate = errors.New("due date cannot contain |")

// ValidationError reports a rejected task field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParsePriority resolves s (case-insensitive, trimmed) to a Priority.
// An empty string yields DefaultPriority.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPriority, nil
	}
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", &ValidationError{Field: "priority", Err: fmt.Errorf("%w: %s", ErrInvalidPriority, s)}
}

// Valid reports whether p is one of Priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Next returns the priority after p, wrapping around.
func (p Priority) Next() Priority {
	for i, known := range Priorities {
		if p == known {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return DefaultPriority
}

// Prev returns the priority before p, wrapping around.
func (p Priority) Prev() Priority {
	for i, known := range Priorities {
		if p == known {
			return Priorities[(i+len(Priorities)-1)%len(Priorities)]
		}
	}
	return DefaultPriority
}

// Task is a single to-do record.
type Task struct {
	Content   string   `json:"content" yaml:"content"`
	Priority  Priority `json:"priority" yaml:"priority"`
	DueDate   string   `json:"due_date" yaml:"due_date"`
	Completed bool     `json:"completed" yaml:"completed"`
}

// lineBreaks folds CRLF, CR and LF into single spaces. Records are one
// line each, so text fields never keep a line break.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// New builds an open task after validating content and priority.
// The due date is free-form apart from the field separator.
func New(content string, priority Priority, dueDate string) (Task, error) {
	t := Task{Content: content, Priority: priority, DueDate: dueDate}.Normalize()
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Validate checks the stored-task invariants.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Content) == "" {
		return &ValidationError{Field: "content", Err: ErrEmptyContent}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Err: fmt.Errorf("%w: %s", ErrInvalidPriority, t.Priority)}
	}
	if strings.Contains(t.DueDate, "|") {
		return &ValidationError{Field: "due_date", Err: ErrInvalidDueDate}
	}
	return nil
}

// Normalize returns t with line breaks in content and due date replaced
// by spaces.
func (t Task) Normalize() Task {
	t.Content = lineBreaks.Replace(t.Content)
	t.DueDate = lineBreaks.Replace(t.DueDate)
	return t
}

// Status returns the human-readable completion state.
func (t Task) Status() string {
	if t.Completed {
		return "Completed"
	}
	return "Incomplete"
}
