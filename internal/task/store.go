package task

// Store is the ordered list of tasks for one session.
// Tasks are addressed by 0-based position; there are no IDs.
type Store struct {
	tasks []Task
}

// NewStore creates a store holding tasks in the given order.
func NewStore(tasks ...Task) *Store {
	s := &Store{}
	s.tasks = append(s.tasks, tasks...)
	return s
}

// Add appends a new open task. The store is unchanged on error.
func (s *Store) Add(content string, priority Priority, dueDate string) (Task, error) {
	t, err := New(content, priority, dueDate)
	if err != nil {
		return Task{}, err
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// Append adds a fully-formed task, keeping its completion state.
// Line breaks are folded like in New.
func (s *Store) Append(t Task) error {
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}
	s.tasks = append(s.tasks, t)
	return nil
}

// Remove deletes the task at i. Returns false if i selects nothing.
func (s *Store) Remove(i int) bool {
	if !s.selects(i) {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// MarkCompleted sets the completed flag of the task at i.
// Returns false if i selects nothing.
func (s *Store) MarkCompleted(i int) bool {
	if !s.selects(i) {
		return false
	}
	s.tasks[i].Completed = true
	return true
}

// Get returns the task at i.
func (s *Store) Get(i int) (Task, bool) {
	if !s.selects(i) {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the tasks in order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) selects(i int) bool {
	return i >= 0 && i < len(s.tasks)
}
