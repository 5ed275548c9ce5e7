package mutate

import (
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/store"
)

// EntryTarget captures where a quick entry was submitted from.
type EntryTarget struct {
	View         model.ViewType
	ParentNodeID string
	// ViewOffset is the mind map camera translation at submit time.
	ViewOffset model.Point
}

type EntryResult struct {
	Task model.Task
	Node *model.DiagramNode
	Edge *model.DiagramEdge
}

// ApplyQuickEntry creates the task for a parsed quick entry. When submitted from the mind
// map it also adds a bridged node, and an edge from the targeted parent node if one
// still exists.
func ApplyQuickEntry(db *store.DB, draft store.TaskDraft, target EntryTarget) (EntryResult, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return EntryResult{}, ErrEmptyTitle
	}
	t := db.CreateTask(draft)
	res := EntryResult{Task: t}
	if target.View != model.ViewMindMap {
		return res, nil
	}

	pos := DefaultNodePosition.Sub(target.ViewOffset)
	parent, hasParent := db.Ideation.Node(strings.TrimSpace(target.ParentNodeID))
	if hasParent {
		pos = childPosition(parent.Position, db.Ideation.OutDegree(parent.ID))
	}
	node := db.Ideation.AddNode(pos, model.NodeData{
		Label: t.Title,
		Tags:  append([]string(nil), t.Tags...),
		Bridge: &model.TaskBridge{
			TaskID:   t.ID,
			Status:   t.Status,
			Priority: t.Priority,
			Level:    t.Level,
		},
	})
	res.Node = &node
	if hasParent {
		if e, ok := db.Ideation.AddEdge(parent.ID, node.ID); ok {
			res.Edge = &e
		}
	}
	return res, nil
}
