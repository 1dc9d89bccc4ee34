package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/service"
	"todo/internal/task"
)

const emptyContentMessage = "Please enter content for the task."

// inputIndent is the width taken by the focus marker and field label.
const inputIndent = 13

// field identifies the focused part of the window.
type field int

const (
	fieldContent field = iota
	fieldPriority
	fieldDueDate
	fieldList
	fieldCount
)

type model struct {
	sess *service.Session

	contentInput textinput.Model
	priority     task.Priority
	dueInput     textinput.Model

	focus    field
	selected int // index into the list, -1 when nothing is selected
	errMsg   string
	width    int
}

func newTextInput() textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	return in
}

func newModel(sess *service.Session, priority task.Priority) *model {
	if !priority.Valid() {
		priority = task.DefaultPriority
	}
	m := &model{
		sess:         sess,
		contentInput: newTextInput(),
		priority:     priority,
		dueInput:     newTextInput(),
		selected:     -1,
	}
	m.contentInput.Focus()
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - inputIndent - 1; w > 0 {
			m.contentInput.Width = w
			m.dueInput.Width = w
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and the like belong to whichever input is focused.
	return m, m.updateInputs(msg)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		return m, m.moveFocus(1)
	case "shift+tab":
		return m, m.moveFocus(-1)
	}

	// Outside the list, up and down move between fields.
	if m.focus != fieldList {
		switch msg.String() {
		case "down":
			return m, m.moveFocus(1)
		case "up":
			return m, m.moveFocus(-1)
		}
	}

	switch m.focus {
	case fieldContent, fieldDueDate:
		if msg.Type == tea.KeyEnter {
			m.addTask()
			return m, nil
		}
		return m, m.updateInputs(msg)
	case fieldPriority:
		m.handlePriorityKey(msg)
	case fieldList:
		m.handleListKey(msg)
	}
	return m, nil
}

// updateInputs passes msg to both text inputs. An unfocused input
// ignores key presses.
func (m *model) updateInputs(msg tea.Msg) tea.Cmd {
	var contentCmd, dueCmd tea.Cmd
	m.contentInput, contentCmd = m.contentInput.Update(msg)
	m.dueInput, dueCmd = m.dueInput.Update(msg)
	return tea.Batch(contentCmd, dueCmd)
}

func (m *model) handlePriorityKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "left", "h":
		m.priority = m.priority.Prev()
	case "right", "l", " ":
		m.priority = m.priority.Next()
	case "enter":
		m.addTask()
	}
}

func (m *model) handleListKey(msg tea.KeyMsg) {
	n := m.sess.Len()
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < n-1 {
			m.selected++
		}
	case "d", "delete":
		m.destroySelected()
	case "c", "x":
		m.completeSelected()
	}
}

// moveFocus cycles the focus by delta fields. Entering the list selects
// its first row when nothing is selected yet.
func (m *model) moveFocus(delta int) tea.Cmd {
	m.focus = field((int(m.focus) + delta + int(fieldCount)) % int(fieldCount))
	if m.focus == fieldList && m.selected < 0 && m.sess.Len() > 0 {
		m.selected = 0
	}

	m.contentInput.Blur()
	m.dueInput.Blur()
	switch m.focus {
	case fieldContent:
		return m.contentInput.Focus()
	case fieldDueDate:
		return m.dueInput.Focus()
	}
	return nil
}

// addTask adds a task from the inputs. On success the content and due date
// are cleared and the priority is kept.
func (m *model) addTask() {
	_, err := m.sess.Add(m.contentInput.Value(), m.priority, m.dueInput.Value())
	if err != nil {
		if errors.Is(err, task.ErrEmptyContent) {
			m.errMsg = emptyContentMessage
		} else {
			m.errMsg = err.Error()
		}
		return
	}
	m.errMsg = ""
	m.contentInput.SetValue("")
	m.dueInput.SetValue("")
}

func (m *model) destroySelected() {
	if !m.sess.Remove(m.selected) {
		return
	}
	m.errMsg = ""
	if m.selected >= m.sess.Len() {
		m.selected = m.sess.Len() - 1
	}
}

func (m *model) completeSelected() {
	if m.sess.Complete(m.selected) {
		m.errMsg = ""
	}
}
