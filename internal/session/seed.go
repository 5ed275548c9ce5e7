package session

import (
	"zenflow/internal/model"
	"zenflow/internal/store"
)

func strp(s string) *string { return &s }

// seed loads the demo workspace every session starts with.
func seed(db *store.DB) {
	sprint := db.Tasks.DefaultSprint()
	var sp *string
	if sprint != "" {
		sp = strp(sprint)
	}
	db.SeedTasks([]model.Task{
		{
			ID:          "t1",
			Title:       "Design Project Architecture",
			Description: "Create technical specifications and system design diagrams.",
			Status:      model.StatusInProgress,
			Priority:    model.PriorityHigh,
			Level:       model.LevelTask,
			StartDate:   "2024-06-08",
			DueDate:     "2024-06-15",
			Tags:        []string{"Design", "Technical"},
			Sprint:      sp,
		},
		{
			ID:          "t2",
			Title:       "Setup AI Integration",
			Description: "Implement smart node generation and task synthesis.",
			Status:      model.StatusTodo,
			Priority:    model.PriorityUrgent,
			Level:       model.LevelTask,
			StartDate:   "2024-06-13",
			DueDate:     "2024-06-20",
			Tags:        []string{"AI", "Dev"},
			Sprint:      sp,
		},
	})

	db.Ideation.Seed([]model.DiagramNode{
		{ID: "n1", Position: model.Point{X: 250, Y: 50}, Data: model.NodeData{Label: "ZenFlow Launch", Type: model.NodeTopic, Tags: []string{"Milestone"}}},
		{ID: "n2", Position: model.Point{X: 100, Y: 150}, Data: model.NodeData{Label: "Backend Development", Type: model.NodeTopic}},
		{ID: "n3", Position: model.Point{X: 400, Y: 150}, Data: model.NodeData{Label: "Frontend UI/UX", Type: model.NodeTopic}},
		{ID: "n4", Position: model.Point{X: 100, Y: 250}, Data: model.NodeData{
			Label: "Database Setup",
			Tags:  []string{"Design", "Technical"},
			Bridge: &model.TaskBridge{
				TaskID:   "t1",
				Status:   model.StatusInProgress,
				Priority: model.PriorityHigh,
				Level:    model.LevelTask,
			},
		}},
	}, []model.DiagramEdge{
		{ID: "e1-2", Source: "n1", Target: "n2"},
		{ID: "e1-3", Source: "n1", Target: "n3"},
		{ID: "e2-4", Source: "n2", Target: "n4"},
	})

	db.Process.Seed([]model.DiagramNode{
		{ID: "p1", Position: model.Point{X: 80, Y: 40}, Data: model.NodeData{Label: "Capture idea", Type: model.NodeAction}},
		{ID: "p2", Position: model.Point{X: 80, Y: 140}, Data: model.NodeData{Label: "Worth doing?", Type: model.NodeNote}},
		{ID: "p3", Position: model.Point{X: 300, Y: 140}, Data: model.NodeData{Label: "Plan sprint", Type: model.NodeAction}},
		{ID: "p4", Position: model.Point{X: 300, Y: 240}, Data: model.NodeData{Label: "Ship", Type: model.NodeAction}},
	}, []model.DiagramEdge{
		{ID: "pe1-2", Source: "p1", Target: "p2"},
		{ID: "pe2-3", Source: "p2", Target: "p3", Label: "yes"},
	})
}
