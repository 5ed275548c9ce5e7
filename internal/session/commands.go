package session

import (
	"zenflow/internal/model"
	"zenflow/internal/projector"
)

// Command is one user intent. Front ends build commands and hand them to Dispatch.
type Command interface{ command() }

type ExpandNode struct{ NodeID string }

type PromoteNode struct {
	NodeID string
	Level  model.Level
}

// AddChild opens quick entry targeted at a mind map node.
type AddChild struct{ ParentNodeID string }

type OpenQuickEntry struct{}

type CloseQuickEntry struct{}

type SubmitQuickEntry struct{ Text string }

// DropTask is a kanban drop: the card's task id onto a column's status.
type DropTask struct {
	TaskID string
	Column model.Status
}

// MoveTask shifts a kanban card by Dir columns.
type MoveTask struct {
	TaskID string
	Dir    int
}

type ToggleTask struct{ TaskID string }

type EditTask struct{ Task model.Task }

type DecomposeTask struct{ TaskID string }

type SetView struct{ View model.ViewType }

// CancelConnect clears a pending flowchart connect.
type CancelConnect struct{}

type SetFilter struct{ Filter projector.ListFilter }

// Connect adds an edge directly, outside the pointer protocol.
type Connect struct {
	Graph  model.ViewType
	Source string
	Target string
}

func (ExpandNode) command()       {}
func (PromoteNode) command()      {}
func (AddChild) command()         {}
func (OpenQuickEntry) command()   {}
func (CloseQuickEntry) command()  {}
func (SubmitQuickEntry) command() {}
func (DropTask) command()         {}
func (MoveTask) command()         {}
func (ToggleTask) command()       {}
func (EditTask) command()         {}
func (DecomposeTask) command()    {}
func (SetView) command()          {}
func (CancelConnect) command()    {}
func (SetFilter) command()        {}
func (Connect) command()          {}
