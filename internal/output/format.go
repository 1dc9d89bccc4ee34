// Package output provides formatters for task list output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/task"
)

// TaskLine renders a task with its 1-based number.
// Format: "{N}. {CONTENT} - Priority: {P} - Due Date: {DUE} - {STATUS}"
func TaskLine(num int, t task.Task) string {
	return fmt.Sprintf("%d. %s - Priority: %s - Due Date: %s - %s",
		num, normalizeText(t.Content), t.Priority, normalizeText(t.DueDate), t.Status())
}

// FormatTask writes a task line followed by a newline.
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintln(w, TaskLine(num, t))
}

// FormatTasks writes every task in order, numbered from 1.
func FormatTasks(w io.Writer, tasks []task.Task) {
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// normalizeText replaces line breaks with spaces so one task is one line.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
