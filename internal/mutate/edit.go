package mutate

import (
	"reflect"
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/statusutil"
	"zenflow/internal/store"
)

// EditTask applies a direct field edit. The identity is taken from edited.ID; every other
// field replaces the stored value after validation.
func EditTask(db *store.DB, edited model.Task) (TaskResult, error) {
	cur, ok := db.FindTask(strings.TrimSpace(edited.ID))
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: edited.ID}
	}
	edited.Title = strings.TrimSpace(edited.Title)
	if edited.Title == "" {
		return TaskResult{}, ErrEmptyTitle
	}
	if !statusutil.ValidStatus(edited.Status) {
		return TaskResult{}, ErrInvalidStatus
	}
	if !statusutil.ValidPriority(edited.Priority) {
		return TaskResult{}, ErrInvalidPriority
	}
	if !statusutil.ValidLevel(edited.Level) {
		return TaskResult{}, ErrInvalidLevel
	}
	if edited.ParentID != nil && (strings.TrimSpace(*edited.ParentID) == "" || *edited.ParentID == edited.ID) {
		edited.ParentID = nil
	}
	cur, edited = cur.Normalized(), edited.Normalized()
	if reflect.DeepEqual(cur, edited) {
		return TaskResult{Task: cur, From: cur.Status}, nil
	}
	db.UpdateTask(edited)
	return TaskResult{Task: edited, Changed: true, From: cur.Status}, nil
}
