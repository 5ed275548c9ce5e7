package mutate

import (
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/store"
)

type Subtask struct {
	Title       string
	Description string
}

// ApplyDecomposition creates one child task per subtask under parentID. Children inherit
// the parent's dates, sprint and priority; their level is task.
func ApplyDecomposition(db *store.DB, parentID string, subtasks []Subtask) ([]model.Task, error) {
	parent, ok := db.FindTask(strings.TrimSpace(parentID))
	if !ok {
		return nil, NotFoundError{Kind: "task", ID: parentID}
	}
	var out []model.Task
	// Prepending means the last created child is listed first; create in reverse so the
	// list view reads in suggestion order.
	for i := len(subtasks) - 1; i >= 0; i-- {
		st := subtasks[i]
		title := strings.TrimSpace(st.Title)
		if title == "" {
			continue
		}
		pid := parent.ID
		d := store.TaskDraft{
			Title:       title,
			Description: strings.TrimSpace(st.Description),
			Status:      model.StatusTodo,
			Priority:    parent.Priority,
			Level:       model.LevelTask,
			StartDate:   parent.StartDate,
			DueDate:     parent.DueDate,
			ParentID:    &pid,
		}
		if parent.Sprint != nil {
			sp := *parent.Sprint
			d.Sprint = &sp
		}
		out = append([]model.Task{db.CreateTask(d)}, out...)
	}
	return out, nil
}
