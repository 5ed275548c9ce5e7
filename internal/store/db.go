package store

import (
	"zenflow/internal/bridge"
	"zenflow/internal/graph"
	"zenflow/internal/ids"
	"zenflow/internal/model"
)

// DB owns the three top-level collections of a session: the task store, the ideation
// graph and the process graph. All task writes go through DB so that bridged ideation
// nodes are patched within the same call.
type DB struct {
	Tasks    *TaskStore
	Ideation *graph.Graph
	Process  *graph.Graph
}

type Options struct {
	DefaultSprint string
	// NewID overrides identifier generation for tasks, nodes and edges.
	NewID func(prefix string) string
}

func NewDB(opts Options) *DB {
	newID := opts.NewID
	if newID == nil {
		newID = ids.New
	}
	return &DB{
		Tasks:    NewTaskStore(opts.DefaultSprint, newID),
		Ideation: graph.New(graph.KindIdeation, graph.WithIDFunc(newID)),
		Process:  graph.New(graph.KindProcess, graph.WithIDFunc(newID)),
	}
}

// CreateTask adds a task built from d (prepended, newest first).
func (db *DB) CreateTask(d TaskDraft) model.Task {
	return db.Tasks.create(d)
}

// UpdateTask replaces the stored task with t.ID and synchronously mirrors status,
// priority and level onto every bridged ideation node. A stale id is a silent no-op.
func (db *DB) UpdateTask(t model.Task) bool {
	if !db.Tasks.replace(t) {
		return false
	}
	bridge.Sync(db.Ideation, t)
	return true
}

func (db *DB) FindTask(id string) (model.Task, bool) {
	return db.Tasks.Find(id)
}

// SeedTasks appends tasks verbatim, in the given order.
func (db *DB) SeedTasks(tasks []model.Task) {
	db.Tasks.seed(tasks)
}

// Graph returns the graph of the given kind.
func (db *DB) Graph(kind graph.Kind) *graph.Graph {
	switch kind {
	case graph.KindIdeation:
		return db.Ideation
	case graph.KindProcess:
		return db.Process
	default:
		return nil
	}
}

// Snapshot is a deep copy of the session state, used for output and comparisons.
type Snapshot struct {
	Tasks         []model.Task        `json:"tasks"`
	IdeationNodes []model.DiagramNode `json:"ideationNodes"`
	IdeationEdges []model.DiagramEdge `json:"ideationEdges"`
	ProcessNodes  []model.DiagramNode `json:"processNodes"`
	ProcessEdges  []model.DiagramEdge `json:"processEdges"`
}

func (db *DB) Snapshot() Snapshot {
	return Snapshot{
		Tasks:         db.Tasks.All(),
		IdeationNodes: db.Ideation.Nodes(),
		IdeationEdges: db.Ideation.Edges(),
		ProcessNodes:  db.Process.Nodes(),
		ProcessEdges:  db.Process.Edges(),
	}
}
