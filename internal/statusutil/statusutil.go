package statusutil

import (
	"fmt"
	"strings"

	"zenflow/internal/model"
)

// KanbanOrder is the fixed left-to-right column order of the board.
var KanbanOrder = []model.Status{
	model.StatusBacklog,
	model.StatusTodo,
	model.StatusInProgress,
	model.StatusDone,
}

var Priorities = []model.Priority{
	model.PriorityLow,
	model.PriorityMedium,
	model.PriorityHigh,
	model.PriorityUrgent,
}

var Levels = []model.Level{
	model.LevelProject,
	model.LevelGoal,
	model.LevelTask,
}

var Views = []model.ViewType{
	model.ViewMindMap,
	model.ViewFlowchart,
	model.ViewList,
	model.ViewKanban,
	model.ViewGantt,
}

func ParseStatus(s string) (model.Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "backlog":
		return model.StatusBacklog, nil
	case "todo", "to-do", "to do":
		return model.StatusTodo, nil
	case "in-progress", "in progress", "inprogress", "doing":
		return model.StatusInProgress, nil
	case "done":
		return model.StatusDone, nil
	case "":
		return "", fmt.Errorf("invalid status: empty")
	default:
		return "", fmt.Errorf("invalid status: %s", strings.TrimSpace(s))
	}
}

func ParsePriority(s string) (model.Priority, error) {
	v := model.Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range Priorities {
		if p == v {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %q", s)
}

func ParseLevel(s string) (model.Level, error) {
	v := model.Level(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range Levels {
		if l == v {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid level: %q", s)
}

func ParseView(s string) (model.ViewType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "mind-map", "mind map", "ideation":
		return model.ViewMindMap, nil
	case "flow", "process":
		return model.ViewFlowchart, nil
	case "timeline":
		return model.ViewGantt, nil
	case "board":
		return model.ViewKanban, nil
	}
	for _, view := range Views {
		if string(view) == v {
			return view, nil
		}
	}
	return "", fmt.Errorf("unknown view: %q", s)
}

func ValidStatus(s model.Status) bool {
	for _, st := range KanbanOrder {
		if st == s {
			return true
		}
	}
	return false
}

func ValidPriority(p model.Priority) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

func ValidLevel(l model.Level) bool {
	for _, v := range Levels {
		if v == l {
			return true
		}
	}
	return false
}

func IsEndState(s model.Status) bool { return s == model.StatusDone }

// Toggled is the list-checkbox transition: done goes back to todo, anything else becomes done.
func Toggled(s model.Status) model.Status {
	if IsEndState(s) {
		return model.StatusTodo
	}
	return model.StatusDone
}

// StatusLabel renders "in-progress" as "in progress".
func StatusLabel(s model.Status) string {
	return strings.ReplaceAll(string(s), "-", " ")
}

// ColumnIndex returns the kanban column of s, or -1.
func ColumnIndex(s model.Status) int {
	for i, st := range KanbanOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// PriorityRank orders priorities low (0) to urgent (3); unknown values rank -1.
func PriorityRank(p model.Priority) int {
	for i, v := range Priorities {
		if v == p {
			return i
		}
	}
	return -1
}
