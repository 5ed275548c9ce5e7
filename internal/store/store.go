package store

import (
	"strings"

	"zenflow/internal/ids"
	"zenflow/internal/model"
)

// TaskDraft carries the caller-supplied fields of a new task. Zero values take defaults:
// status todo, priority medium, level task, sprint from the store policy.
type TaskDraft struct {
	Title        string
	Description  string
	Status       model.Status
	Priority     model.Priority
	Level        model.Level
	StartDate    string
	DueDate      string
	Tags         []string
	ParentID     *string
	Sprint       *string
	CustomFields map[string]string
}

// TaskStore is the canonical ordered set of tasks, newest first.
type TaskStore struct {
	tasks         []model.Task
	defaultSprint string
	newID         func(prefix string) string
}

func NewTaskStore(defaultSprint string, newID func(prefix string) string) *TaskStore {
	if newID == nil {
		newID = ids.New
	}
	return &TaskStore{defaultSprint: strings.TrimSpace(defaultSprint), newID: newID}
}

// create assigns a fresh id, fills defaults and prepends the task.
func (s *TaskStore) create(d TaskDraft) model.Task {
	t := model.Task{
		ID:           s.newID(ids.PrefixTask),
		Title:        d.Title,
		Description:  d.Description,
		Status:       d.Status,
		Priority:     d.Priority,
		Level:        d.Level,
		StartDate:    d.StartDate,
		DueDate:      d.DueDate,
		Tags:         d.Tags,
		ParentID:     d.ParentID,
		Sprint:       d.Sprint,
		CustomFields: d.CustomFields,
	}
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Level == "" {
		t.Level = model.LevelTask
	}
	if t.Sprint == nil && s.defaultSprint != "" {
		sp := s.defaultSprint
		t.Sprint = &sp
	}
	t = t.Clone()
	s.tasks = append([]model.Task{t}, s.tasks...)
	return t.Clone()
}

// replace swaps the stored entry with the same id. Unknown ids are a no-op.
func (s *TaskStore) replace(t model.Task) bool {
	i := s.indexOf(t.ID)
	if i < 0 {
		return false
	}
	s.tasks[i] = t.Clone()
	return true
}

func (s *TaskStore) seed(tasks []model.Task) {
	for _, t := range tasks {
		s.tasks = append(s.tasks, t.Clone())
	}
}

func (s *TaskStore) Find(id string) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// All returns a snapshot of every task, newest first.
func (s *TaskStore) All() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (s *TaskStore) Len() int { return len(s.tasks) }

func (s *TaskStore) DefaultSprint() string { return s.defaultSprint }

func (s *TaskStore) indexOf(id string) int {
	if strings.TrimSpace(id) == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
