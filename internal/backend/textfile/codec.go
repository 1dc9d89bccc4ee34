package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"todo/internal/task"
)

const (
	// Separator joins the fields of one record.
	Separator = "|"

	completedTrue  = "True"
	completedFalse = "False"

	fieldCount = 4
)

// ErrUnencodable indicates a task the line format cannot hold without
// changing it on the next load.
var ErrUnencodable = errors.New("task cannot be stored as one record")

// ParseError reports a malformed record.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatLine renders t as content|priority|due_date|True/False. Line
// breaks in either text field, or a separator in the due date, would not
// read back as t and yield ErrUnencodable.
func FormatLine(t task.Task) (string, error) {
	switch {
	case strings.ContainsAny(t.Content, "\r\n"):
		return "", fmt.Errorf("%w: line break in content", ErrUnencodable)
	case strings.ContainsAny(t.DueDate, "\r\n"):
		return "", fmt.Errorf("%w: line break in due date", ErrUnencodable)
	case strings.Contains(t.DueDate, Separator):
		return "", fmt.Errorf("%w: %q in due date", ErrUnencodable, Separator)
	}

	completed := completedFalse
	if t.Completed {
		completed = completedTrue
	}
	return strings.Join([]string{t.Content, string(t.Priority), t.DueDate, completed}, Separator), nil
}

// ParseLine parses one record. The last three separators delimit the
// trailing fields, so separators inside content are preserved.
func ParseLine(line string) (task.Task, error) {
	fields := splitRight(line, Separator, fieldCount)
	if len(fields) != fieldCount {
		return task.Task{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	priority, err := task.ParsePriority(fields[1])
	if err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		Content:   fields[0],
		Priority:  priority,
		DueDate:   fields[2],
		Completed: fields[3] == completedTrue,
	}.Normalize()
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// splitRight splits s into at most n fields, cutting at the rightmost
// separators.
func splitRight(s, sep string, n int) []string {
	var tail []string
	for len(tail) < n-1 {
		i := strings.LastIndex(s, sep)
		if i < 0 {
			break
		}
		tail = append(tail, s[i+len(sep):])
		s = s[:i]
	}
	fields := make([]string, 0, len(tail)+1)
	fields = append(fields, s)
	for i := len(tail) - 1; i >= 0; i-- {
		fields = append(fields, tail[i])
	}
	return fields
}

// Decode reads records from r in file order. Blank lines are skipped.
func Decode(r io.Reader) ([]task.Task, error) {
	var tasks []task.Task
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Err: err}
		}
		tasks = append(tasks, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return tasks, nil
}

// Encode writes one record per task, each terminated by a newline.
// Nothing is written when a task cannot be encoded.
func Encode(w io.Writer, tasks []task.Task) error {
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		line, err := FormatLine(t)
		if err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		lines[i] = line
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
