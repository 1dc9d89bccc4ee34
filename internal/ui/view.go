package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/output"
	"todo/internal/task"
)

const (
	windowTitle = "To-Do List App"
	watermark   = "Task Manager"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	watermarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle     = lipgloss.NewStyle().Width(11)
	focusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	listStyle      = lipgloss.NewStyle().
			Background(lipgloss.Color("218")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	keyStyle      = lipgloss.NewStyle().Bold(true)
)

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b)
	m.writeInputs(&b)
	m.writeError(&b)
	m.writeList(&b)
	m.writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render(windowTitle))
	b.WriteString("  ")
	b.WriteString(watermarkStyle.Render(watermark))
	b.WriteString("\n\n")
}

func (m *model) writeInputs(b *strings.Builder) {
	m.writeInput(b, fieldContent, "Content:", m.contentInput.View())
	m.writeInput(b, fieldPriority, "Priority:", priorityChoices(m.priority))
	m.writeInput(b, fieldDueDate, "Due Date:", m.dueInput.View())
	b.WriteString("\n")
	writeActions(b, m.focus != fieldList, keyHint{"enter", "Add Task"})
}

func (m *model) writeInput(b *strings.Builder, f field, label, value string) {
	marker := "  "
	if m.focus == f {
		marker = focusStyle.Render("> ")
	}
	b.WriteString(marker)
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

// keyHint names the key that triggers an action.
type keyHint struct {
	key, action string
}

// writeActions renders one line of key hints. Hints for the part of the
// window without focus are dimmed.
func writeActions(b *strings.Builder, active bool, hints ...keyHint) {
	parts := make([]string, len(hints))
	for i, h := range hints {
		key := h.key
		if active {
			key = keyStyle.Render(key)
		}
		parts[i] = key + " " + h.action
	}
	line := strings.Join(parts, "   ")
	if !active {
		line = helpStyle.Render(line)
	}
	b.WriteString("  ")
	b.WriteString(line)
	b.WriteString("\n\n")
}

// priorityChoices renders the selector with the current choice bracketed.
func priorityChoices(current task.Priority) string {
	parts := make([]string, len(task.Priorities))
	for i, p := range task.Priorities {
		if p == current {
			parts[i] = "[" + string(p) + "]"
		} else {
			parts[i] = " " + string(p) + " "
		}
	}
	return strings.Join(parts, " ")
}

func (m *model) writeError(b *strings.Builder) {
	if m.errMsg == "" {
		return
	}
	b.WriteString(errorStyle.Render("Error: " + m.errMsg))
	b.WriteString("\n\n")
}

func (m *model) writeList(b *strings.Builder) {
	tasks := m.sess.Tasks()
	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		line := output.TaskLine(i+1, t)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, "No tasks yet.")
	}

	style := listStyle
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	if m.focus == fieldList {
		b.WriteString(focusStyle.Render("> Tasks"))
	} else {
		b.WriteString("  Tasks")
	}
	b.WriteString("\n")
	b.WriteString(style.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")
	writeActions(b, m.focus == fieldList, keyHint{"d", "Destroy Task"}, keyHint{"c", "Mark as Completed"})
}

func (m *model) writeFooter(b *strings.Builder) {
	var help string
	switch m.focus {
	case fieldContent, fieldDueDate:
		help = "enter add task | tab next field | esc quit"
	case fieldPriority:
		help = "left/right change priority | enter add task | tab next field | esc quit"
	case fieldList:
		help = "up/down select | d destroy | c mark completed | tab next field | esc quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
}
