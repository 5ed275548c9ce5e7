package mutate

import (
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/statusutil"
	"zenflow/internal/store"
)

type TaskResult struct {
	Task    model.Task
	Changed bool
	From    model.Status
}

// SetTaskStatus replaces only the status of a task. Setting the current status is a
// no-op that leaves the store untouched.
func SetTaskStatus(db *store.DB, taskID string, status model.Status) (TaskResult, error) {
	taskID = strings.TrimSpace(taskID)
	if !statusutil.ValidStatus(status) {
		return TaskResult{}, ErrInvalidStatus
	}
	t, ok := db.FindTask(taskID)
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: taskID}
	}
	prev := t.Status
	if prev == status {
		return TaskResult{Task: t, Changed: false, From: prev}, nil
	}
	t.Status = status
	db.UpdateTask(t)
	return TaskResult{Task: t, Changed: true, From: prev}, nil
}

// DropOnColumn applies a kanban drop of taskID onto the column for status.
func DropOnColumn(db *store.DB, taskID string, column model.Status) (TaskResult, error) {
	return SetTaskStatus(db, taskID, column)
}

// ToggleTaskStatus is the list checkbox: done -> todo, anything else -> done.
func ToggleTaskStatus(db *store.DB, taskID string) (TaskResult, error) {
	t, ok := db.FindTask(strings.TrimSpace(taskID))
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: taskID}
	}
	return SetTaskStatus(db, t.ID, statusutil.Toggled(t.Status))
}

// MoveTaskColumn shifts a task by dir columns on the board (keyboard drag and drop).
// Moving past either edge is a no-op.
func MoveTaskColumn(db *store.DB, taskID string, dir int) (TaskResult, error) {
	t, ok := db.FindTask(strings.TrimSpace(taskID))
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: taskID}
	}
	i := statusutil.ColumnIndex(t.Status) + dir
	if i < 0 || i >= len(statusutil.KanbanOrder) {
		return TaskResult{Task: t, From: t.Status}, nil
	}
	return DropOnColumn(db, t.ID, statusutil.KanbanOrder[i])
}
