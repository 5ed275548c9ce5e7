package projector

import (
	"strings"

	"zenflow/internal/model"
)

// ListFilter is the list view's filter state. A nil field matches everything.
type ListFilter struct {
	Status   *model.Status   `json:"status,omitempty"`
	Priority *model.Priority `json:"priority,omitempty"`
	Sprint   *string         `json:"sprint,omitempty"`
	// Search is matched case-insensitively against the title.
	Search string `json:"search,omitempty"`
}

func (f ListFilter) IsZero() bool {
	return f.Status == nil && f.Priority == nil && f.Sprint == nil && strings.TrimSpace(f.Search) == ""
}

// Match reports whether t passes every active filter.
func (f ListFilter) Match(t model.Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Sprint != nil && t.SprintLabel() != *f.Sprint {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) {
			return false
		}
	}
	return true
}

// FilterTasks keeps the tasks matching f, in input order.
func FilterTasks(tasks []model.Task, f ListFilter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

type ListRow struct {
	Task        model.Task `json:"task"`
	Depth       int        `json:"depth"`
	HasChildren bool       `json:"hasChildren"`
}

// BuildList filters tasks and renders the survivors as a depth-first forest. A task
// whose parent is absent or filtered out is a root. Siblings keep input order.
func BuildList(tasks []model.Task, f ListFilter) []ListRow {
	items := FilterTasks(tasks, f)

	present := make(map[string]bool, len(items))
	for _, t := range items {
		present[t.ID] = true
	}
	children := map[string][]model.Task{}
	var roots []model.Task
	for _, t := range items {
		if t.ParentID == nil || strings.TrimSpace(*t.ParentID) == "" || *t.ParentID == t.ID || !present[*t.ParentID] {
			roots = append(roots, t)
			continue
		}
		children[*t.ParentID] = append(children[*t.ParentID], t)
	}

	out := make([]ListRow, 0, len(items))
	visited := make(map[string]bool, len(items))
	var walk func(t model.Task, depth int)
	walk = func(t model.Task, depth int) {
		if visited[t.ID] {
			return
		}
		visited[t.ID] = true
		out = append(out, ListRow{Task: t, Depth: depth, HasChildren: len(children[t.ID]) > 0})
		for _, ch := range children[t.ID] {
			walk(ch, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	// Members of a parent cycle are unreachable from any root; list them as roots.
	for _, t := range items {
		if !visited[t.ID] {
			walk(t, 0)
		}
	}
	return out
}

// Sprints returns the distinct sprint labels in first-seen order, for the filter picker.
func Sprints(tasks []model.Task) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tasks {
		s := t.SprintLabel()
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
