// Package bridge keeps ideation nodes that are linked to tasks in step with those tasks.
package bridge

import (
	"errors"
	"fmt"

	"zenflow/internal/graph"
	"zenflow/internal/model"
)

var ErrAlreadyBridged = errors.New("node already bridged")

// Sync copies the task's status, priority and level onto every node linked to it.
// Label, position and tags are left alone. It returns the number of nodes patched.
func Sync(g *graph.Graph, t model.Task) int {
	if g == nil || t.ID == "" {
		return 0
	}
	n := 0
	g.EachNode(func(node *model.DiagramNode) {
		b := node.Data.Bridge
		if b == nil || b.TaskID != t.ID {
			return
		}
		b.Status = t.Status
		b.Priority = t.Priority
		b.Level = t.Level
		n++
	})
	return n
}

// Attach turns a freeform node into a bridged node for t. The bridge is permanent:
// attaching an already bridged node fails with ErrAlreadyBridged.
func Attach(g *graph.Graph, nodeID string, t model.Task) error {
	node, ok := g.Node(nodeID)
	if !ok {
		return fmt.Errorf("node not found: %s", nodeID)
	}
	if node.Data.IsTask() {
		return ErrAlreadyBridged
	}
	g.UpdateNode(nodeID, func(n *model.DiagramNode) {
		n.Data.Bridge = &model.TaskBridge{
			TaskID:   t.ID,
			Status:   t.Status,
			Priority: t.Priority,
			Level:    t.Level,
		}
	})
	return nil
}

// Mismatch describes a bridged node that disagrees with its task.
type Mismatch struct {
	NodeID      string `json:"nodeId"`
	TaskID      string `json:"taskId"`
	MissingTask bool   `json:"missingTask,omitempty"`
	Field       string `json:"field,omitempty"`
	Node        string `json:"node,omitempty"`
	Task        string `json:"task,omitempty"`
}

// Verify reports every bridged node whose mirrored fields differ from the linked task,
// and every bridged node whose task cannot be found.
func Verify(g *graph.Graph, find func(id string) (model.Task, bool)) []Mismatch {
	var out []Mismatch
	for _, n := range g.Nodes() {
		b := n.Data.Bridge
		if b == nil {
			continue
		}
		t, ok := find(b.TaskID)
		if !ok {
			out = append(out, Mismatch{NodeID: n.ID, TaskID: b.TaskID, MissingTask: true})
			continue
		}
		if b.Status != t.Status {
			out = append(out, Mismatch{NodeID: n.ID, TaskID: t.ID, Field: "status", Node: string(b.Status), Task: string(t.Status)})
		}
		if b.Priority != t.Priority {
			out = append(out, Mismatch{NodeID: n.ID, TaskID: t.ID, Field: "priority", Node: string(b.Priority), Task: string(t.Priority)})
		}
		if b.Level != t.Level {
			out = append(out, Mismatch{NodeID: n.ID, TaskID: t.ID, Field: "level", Node: string(b.Level), Task: string(t.Level)})
		}
	}
	return out
}
