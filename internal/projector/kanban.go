// Package projector derives each view's display model from session state. Every
// function here is pure: it reads its inputs and allocates a fresh result.
package projector

import (
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/statusutil"
)

type KanbanCard struct {
	Task          model.Task `json:"task"`
	DoneChildren  int        `json:"doneChildren,omitempty"`
	TotalChildren int        `json:"totalChildren,omitempty"`
}

type KanbanColumn struct {
	Status model.Status `json:"status"`
	Label  string       `json:"label"`
	Count  int          `json:"count"`
	Cards  []KanbanCard `json:"cards"`
}

type Kanban struct {
	Columns []KanbanColumn `json:"columns"`
}

// BuildKanban partitions tasks into the fixed column order. Store order is kept inside
// each column. Tasks with an unknown status appear in no column.
func BuildKanban(tasks []model.Task) Kanban {
	cols := make([]KanbanColumn, len(statusutil.KanbanOrder))
	for i, st := range statusutil.KanbanOrder {
		cols[i] = KanbanColumn{Status: st, Label: statusutil.StatusLabel(st), Cards: []KanbanCard{}}
	}

	// Progress cookies count direct children only.
	progress := map[string][2]int{}
	for _, t := range tasks {
		if t.ParentID == nil || strings.TrimSpace(*t.ParentID) == "" {
			continue
		}
		p := progress[*t.ParentID]
		p[1]++
		if statusutil.IsEndState(t.Status) {
			p[0]++
		}
		progress[*t.ParentID] = p
	}

	for _, t := range tasks {
		i := statusutil.ColumnIndex(t.Status)
		if i < 0 {
			continue
		}
		p := progress[t.ID]
		cols[i].Cards = append(cols[i].Cards, KanbanCard{Task: t, DoneChildren: p[0], TotalChildren: p[1]})
	}
	for i := range cols {
		cols[i].Count = len(cols[i].Cards)
	}
	return Kanban{Columns: cols}
}

// Column returns the column for status, if it is one of the board's columns.
func (k Kanban) Column(st model.Status) (KanbanColumn, bool) {
	for _, c := range k.Columns {
		if c.Status == st {
			return c, true
		}
	}
	return KanbanColumn{}, false
}
