// Package session is the application-session context: it owns the task store, both
// graphs, their canvas controllers and all view state, and applies commands to them.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"zenflow/internal/bridge"
	"zenflow/internal/canvas"
	"zenflow/internal/graph"
	"zenflow/internal/model"
	"zenflow/internal/mutate"
	"zenflow/internal/projector"
	"zenflow/internal/quickentry"
	"zenflow/internal/store"
)

// EntryState is the quick-entry modal.
type EntryState struct {
	Open         bool
	ParentNodeID string
}

type Options struct {
	DefaultSprint string
	NewID         func(prefix string) string
	Pipeline      *quickentry.Pipeline
	DragThreshold float64
	ExpandRadius  float64
	Gantt         projector.GanttScale
	Logger        *slog.Logger
	Now           func() time.Time
	// Empty skips the demo workspace.
	Empty bool
}

type Session struct {
	DB   *store.DB
	Mind *canvas.Controller
	Flow *canvas.Controller

	pipeline     *quickentry.Pipeline
	view         model.ViewType
	filter       projector.ListFilter
	entry        EntryState
	gantt        projector.GanttScale
	expandRadius float64
	log          *slog.Logger
	now          func() time.Time
}

func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pl := opts.Pipeline
	if pl == nil {
		pl = quickentry.New(quickentry.WithClock(now), quickentry.WithLogger(log))
	}
	threshold := opts.DragThreshold
	if threshold <= 0 {
		threshold = canvas.DefaultThreshold
	}
	gantt := opts.Gantt
	if gantt.PxPerDay <= 0 {
		gantt = projector.DefaultGanttScale
	}

	db := store.NewDB(store.Options{DefaultSprint: opts.DefaultSprint, NewID: opts.NewID})
	if !opts.Empty {
		seed(db)
	}
	return &Session{
		DB:           db,
		Mind:         canvas.New(db.Ideation, canvas.WithThreshold(threshold)),
		Flow:         canvas.New(db.Process, canvas.WithThreshold(threshold), canvas.WithConnect()),
		pipeline:     pl,
		view:         model.ViewMindMap,
		gantt:        gantt,
		expandRadius: opts.ExpandRadius,
		log:          log,
		now:          now,
	}
}

// Result reports what a command did. NotFound marks a stale reference that was ignored.
type Result struct {
	Changed  bool
	NotFound bool
	Pending  bool
	Err      error
	Message  string

	Tasks []model.Task
	Nodes []model.DiagramNode
	Edges []model.DiagramEdge
}

// Job is the asynchronous half of a command: the collaborator call. It must not touch
// the session; the returned Completion is applied on the event loop.
type Job func(ctx context.Context) Completion

type Completion interface {
	Apply(s *Session) Result
}

// Dispatch applies cmd. Commands that call a collaborator return a Job; the caller runs
// it off the event loop and applies its Completion.
func (s *Session) Dispatch(cmd Command) (Result, Job) {
	switch c := cmd.(type) {
	case SetView:
		if c.View == s.view {
			return Result{}, nil
		}
		s.view = c.View
		return Result{Changed: true}, nil
	case SetFilter:
		s.filter = c.Filter
		return Result{Changed: true}, nil
	case CancelConnect:
		return Result{Changed: s.Flow.Cancel()}, nil
	case OpenQuickEntry:
		s.entry = EntryState{Open: true}
		return Result{Changed: true}, nil
	case AddChild:
		if _, ok := s.DB.Ideation.Node(c.ParentNodeID); !ok {
			return s.notFound(mutate.NotFoundError{Kind: "node", ID: c.ParentNodeID}), nil
		}
		s.entry = EntryState{Open: true, ParentNodeID: c.ParentNodeID}
		return Result{Changed: true}, nil
	case CloseQuickEntry:
		s.entry = EntryState{}
		return Result{Changed: true}, nil
	case SubmitQuickEntry:
		return s.submitEntry(c.Text)
	case ExpandNode:
		return s.expand(c.NodeID)
	case DecomposeTask:
		return s.decompose(c.TaskID)
	case PromoteNode:
		res, err := mutate.PromoteNode(s.DB, c.NodeID, c.Level, s.now())
		if err != nil {
			return s.fail(err), nil
		}
		return Result{Changed: res.Created, Tasks: []model.Task{res.Task}, Nodes: []model.DiagramNode{res.Node}}, nil
	case DropTask:
		return s.taskResult(mutate.DropOnColumn(s.DB, c.TaskID, c.Column)), nil
	case MoveTask:
		return s.taskResult(mutate.MoveTaskColumn(s.DB, c.TaskID, c.Dir)), nil
	case ToggleTask:
		return s.taskResult(mutate.ToggleTaskStatus(s.DB, c.TaskID)), nil
	case EditTask:
		return s.taskResult(mutate.EditTask(s.DB, c.Task)), nil
	case Connect:
		g := s.graphFor(c.Graph)
		if g == nil {
			return Result{Message: "unknown graph"}, nil
		}
		if _, ok := g.Node(c.Source); !ok {
			return s.notFound(mutate.NotFoundError{Kind: "node", ID: c.Source}), nil
		}
		if _, ok := g.Node(c.Target); !ok {
			return s.notFound(mutate.NotFoundError{Kind: "node", ID: c.Target}), nil
		}
		e, ok := g.AddEdge(c.Source, c.Target)
		if !ok {
			s.log.Debug("edge rejected", "source", c.Source, "target", c.Target)
			return Result{}, nil
		}
		return Result{Changed: true, Edges: []model.DiagramEdge{e}}, nil
	}
	return Result{}, nil
}

// Run dispatches cmd and, for asynchronous commands, runs the job inline and applies it.
func (s *Session) Run(ctx context.Context, cmd Command) Result {
	res, job := s.Dispatch(cmd)
	if job == nil {
		return res
	}
	return job(ctx).Apply(s)
}

func (s *Session) submitEntry(text string) (Result, Job) {
	target := mutate.EntryTarget{View: s.view, ParentNodeID: s.entry.ParentNodeID, ViewOffset: s.Mind.Offset()}
	if !s.pipeline.Begin() {
		return Result{Message: "busy"}, nil
	}
	s.entry = EntryState{}
	pl := s.pipeline
	return Result{Pending: true}, func(ctx context.Context) Completion {
		parsed := pl.Parse(ctx, text)
		return entryDone{draft: pl.Draft(parsed), target: target}
	}
}

type entryDone struct {
	draft  store.TaskDraft
	target mutate.EntryTarget
}

func (c entryDone) Apply(s *Session) Result {
	defer s.pipeline.End()
	res, err := mutate.ApplyQuickEntry(s.DB, c.draft, c.target)
	if err != nil {
		return s.fail(err)
	}
	out := Result{Changed: true, Tasks: []model.Task{res.Task}}
	if res.Node != nil {
		out.Nodes = append(out.Nodes, *res.Node)
	}
	if res.Edge != nil {
		out.Edges = append(out.Edges, *res.Edge)
	}
	s.log.Info("task created", "id", res.Task.ID, "title", res.Task.Title)
	return out
}

func (s *Session) expand(nodeID string) (Result, Job) {
	node, ok := s.DB.Ideation.Node(nodeID)
	if !ok {
		return s.notFound(mutate.NotFoundError{Kind: "node", ID: nodeID}), nil
	}
	if !s.pipeline.Begin() {
		return Result{Message: "busy"}, nil
	}
	pl := s.pipeline
	label := node.Data.Label
	return Result{Pending: true}, func(ctx context.Context) Completion {
		return expandDone{nodeID: nodeID, labels: pl.Suggest(ctx, label)}
	}
}

type expandDone struct {
	nodeID string
	labels []string
}

func (c expandDone) Apply(s *Session) Result {
	defer s.pipeline.End()
	res, err := mutate.ApplyExpansion(s.DB, c.nodeID, c.labels, s.expandRadius)
	if err != nil {
		return s.fail(err)
	}
	return Result{Changed: len(res.Nodes) > 0, Nodes: res.Nodes, Edges: res.Edges}
}

func (s *Session) decompose(taskID string) (Result, Job) {
	t, ok := s.DB.FindTask(taskID)
	if !ok {
		return s.notFound(mutate.NotFoundError{Kind: "task", ID: taskID}), nil
	}
	if !s.pipeline.Begin() {
		return Result{Message: "busy"}, nil
	}
	pl := s.pipeline
	return Result{Pending: true}, func(ctx context.Context) Completion {
		return decomposeDone{taskID: t.ID, subtasks: pl.Decompose(ctx, t.Title)}
	}
}

type decomposeDone struct {
	taskID   string
	subtasks []mutate.Subtask
}

func (c decomposeDone) Apply(s *Session) Result {
	defer s.pipeline.End()
	tasks, err := mutate.ApplyDecomposition(s.DB, c.taskID, c.subtasks)
	if err != nil {
		return s.fail(err)
	}
	return Result{Changed: len(tasks) > 0, Tasks: tasks}
}

func (s *Session) taskResult(res mutate.TaskResult, err error) Result {
	if err != nil {
		return s.fail(err)
	}
	if !res.Changed {
		s.log.Debug("task unchanged", "id", res.Task.ID)
	}
	return Result{Changed: res.Changed, Tasks: []model.Task{res.Task}}
}

// fail converts a mutation error. Stale references are silent; validation errors carry
// a message for the status line.
func (s *Session) fail(err error) Result {
	var nf mutate.NotFoundError
	if errors.As(err, &nf) {
		return s.notFound(nf)
	}
	return Result{Err: err, Message: err.Error()}
}

func (s *Session) notFound(err mutate.NotFoundError) Result {
	s.log.Debug("stale reference ignored", "kind", err.Kind, "id", err.ID)
	return Result{NotFound: true}
}

func (s *Session) graphFor(v model.ViewType) *graph.Graph {
	switch v {
	case model.ViewMindMap:
		return s.DB.Ideation
	case model.ViewFlowchart:
		return s.DB.Process
	}
	return nil
}

// Controller returns the canvas controller for a graph view, or nil.
func (s *Session) Controller(v model.ViewType) *canvas.Controller {
	switch v {
	case model.ViewMindMap:
		return s.Mind
	case model.ViewFlowchart:
		return s.Flow
	}
	return nil
}

func (s *Session) View() model.ViewType             { return s.view }
func (s *Session) Filter() projector.ListFilter     { return s.filter }
func (s *Session) Entry() EntryState                { return s.entry }
func (s *Session) Loading() bool                    { return s.pipeline.Loading() }
func (s *Session) GanttScale() projector.GanttScale { return s.gantt }
func (s *Session) Now() time.Time                   { return s.now() }
func (s *Session) Logger() *slog.Logger             { return s.log }

func (s *Session) Tasks() []model.Task { return s.DB.Tasks.All() }

func (s *Session) Kanban() projector.Kanban { return projector.BuildKanban(s.DB.Tasks.All()) }

func (s *Session) List() []projector.ListRow {
	return projector.BuildList(s.DB.Tasks.All(), s.filter)
}

func (s *Session) Gantt() projector.Gantt {
	return projector.BuildGantt(s.DB.Tasks.All(), s.gantt)
}

// Diagram projects the graph behind a mind map or flowchart view through its camera.
func (s *Session) Diagram(v model.ViewType) (projector.Diagram, bool) {
	c := s.Controller(v)
	if c == nil {
		return projector.Diagram{}, false
	}
	return projector.BuildDiagram(c.Graph(), c.Offset()), true
}

// Doctor lists bridged nodes that disagree with their tasks. It is empty in a healthy
// session.
func (s *Session) Doctor() []bridge.Mismatch {
	return bridge.Verify(s.DB.Ideation, s.DB.FindTask)
}
