package model

type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Level is the coarseness tier of a task.
type Level string

const (
	LevelProject Level = "project"
	LevelGoal    Level = "goal"
	LevelTask    Level = "task"
)

type ViewType string

const (
	ViewMindMap   ViewType = "mindmap"
	ViewFlowchart ViewType = "flowchart"
	ViewList      ViewType = "list"
	ViewKanban    ViewType = "kanban"
	ViewGantt     ViewType = "gantt"
)

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Level       Level    `json:"level"`

	// Calendar dates (YYYY-MM-DD). DueDate >= StartDate is expected but not enforced.
	StartDate string `json:"startDate"`
	DueDate   string `json:"dueDate"`

	// A nil and an empty Tags slice mean the same thing: no tags.
	Tags []string `json:"tags,omitempty"`

	ParentID     *string           `json:"parentId,omitempty"`
	Sprint       *string           `json:"sprint,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

// Normalized folds empty Tags and CustomFields to nil so absent and empty compare equal.
func (t Task) Normalized() Task {
	if len(t.Tags) == 0 {
		t.Tags = nil
	}
	if len(t.CustomFields) == 0 {
		t.CustomFields = nil
	}
	return t
}

// Clone returns a copy that shares no mutable state with t.
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.ParentID != nil {
		p := *t.ParentID
		out.ParentID = &p
	}
	if t.Sprint != nil {
		s := *t.Sprint
		out.Sprint = &s
	}
	if t.CustomFields != nil {
		out.CustomFields = make(map[string]string, len(t.CustomFields))
		for k, v := range t.CustomFields {
			out.CustomFields[k] = v
		}
	}
	return out
}

func (t Task) SprintLabel() string {
	if t.Sprint == nil {
		return ""
	}
	return *t.Sprint
}

type NodeType string

const (
	NodeTopic  NodeType = "topic"
	NodeAction NodeType = "action"
	NodeNote   NodeType = "note"
)

// TaskBridge links an ideation node to a task. Status, priority and level are
// mirrored from the task for rendering without a join.
type TaskBridge struct {
	TaskID   string   `json:"taskId"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
	Level    Level    `json:"level"`
}

type NodeData struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Type        NodeType `json:"type,omitempty"`
	Domain      *string  `json:"domain,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Non-nil iff the node is bridged to a task. Once set it is never cleared.
	Bridge *TaskBridge `json:"bridge,omitempty"`
}

func (d NodeData) IsTask() bool { return d.Bridge != nil }

// TaskID returns the linked task id, or "" for a freeform idea node.
func (d NodeData) TaskID() string {
	if d.Bridge == nil {
		return ""
	}
	return d.Bridge.TaskID
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

type DiagramNode struct {
	ID       string   `json:"id"`
	Position Point    `json:"position"`
	Data     NodeData `json:"data"`
}

func (n DiagramNode) Clone() DiagramNode {
	out := n
	if n.Data.Tags != nil {
		out.Data.Tags = append([]string(nil), n.Data.Tags...)
	}
	if n.Data.Domain != nil {
		d := *n.Data.Domain
		out.Data.Domain = &d
	}
	if n.Data.Bridge != nil {
		b := *n.Data.Bridge
		out.Data.Bridge = &b
	}
	return out
}

type DiagramEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}
