package mutate

import (
	"strings"
	"time"

	"zenflow/internal/bridge"
	"zenflow/internal/model"
	"zenflow/internal/statusutil"
	"zenflow/internal/store"
)

const promotedDescription = "Promoted from Mind Map"

type PromoteResult struct {
	Task    model.Task
	Node    model.DiagramNode
	Created bool
}

// PromoteNode turns a freeform ideation node into a task of the given level and bridges
// the node to it. Promoting an already bridged node creates nothing.
func PromoteNode(db *store.DB, nodeID string, level model.Level, today time.Time) (PromoteResult, error) {
	nodeID = strings.TrimSpace(nodeID)
	if !statusutil.ValidLevel(level) {
		return PromoteResult{}, ErrInvalidLevel
	}
	node, ok := db.Ideation.Node(nodeID)
	if !ok {
		return PromoteResult{}, NotFoundError{Kind: "node", ID: nodeID}
	}
	if node.Data.IsTask() {
		res := PromoteResult{Node: node}
		if t, ok := db.FindTask(node.Data.TaskID()); ok {
			res.Task = t
		}
		return res, nil
	}

	tags := node.Data.Tags
	if len(tags) == 0 {
		tags = []string{"Idea"}
	}
	date := model.FormatDate(today)
	t := db.CreateTask(store.TaskDraft{
		Title:       node.Data.Label,
		Description: promotedDescription,
		Status:      model.StatusTodo,
		Priority:    model.PriorityMedium,
		Level:       level,
		StartDate:   date,
		DueDate:     date,
		Tags:        append([]string(nil), tags...),
	})
	if err := bridge.Attach(db.Ideation, nodeID, t); err != nil {
		return PromoteResult{}, err
	}
	node, _ = db.Ideation.Node(nodeID)
	return PromoteResult{Task: t, Node: node, Created: true}, nil
}
