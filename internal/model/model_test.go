package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskClone_DoesNotAlias(t *testing.T) {
	parent := "t-1"
	sprint := "Sprint 1"
	orig := Task{
		ID:           "t-2",
		Tags:         []string{"a"},
		ParentID:     &parent,
		Sprint:       &sprint,
		CustomFields: map[string]string{"k": "v"},
	}
	c := orig.Clone()
	c.Tags[0] = "b"
	*c.ParentID = "t-9"
	*c.Sprint = "Sprint 9"
	c.CustomFields["k"] = "x"

	assert.Equal(t, "a", orig.Tags[0])
	assert.Equal(t, "t-1", *orig.ParentID)
	assert.Equal(t, "Sprint 1", *orig.Sprint)
	assert.Equal(t, "v", orig.CustomFields["k"])
}

func TestDiagramNodeClone_CopiesBridge(t *testing.T) {
	n := DiagramNode{ID: "n1", Data: NodeData{Label: "x", Bridge: &TaskBridge{TaskID: "t1", Status: StatusTodo}}}
	c := n.Clone()
	c.Data.Bridge.Status = StatusDone
	assert.Equal(t, StatusTodo, n.Data.Bridge.Status)
	assert.True(t, c.Data.IsTask())
	assert.Equal(t, "t1", c.Data.TaskID())
	assert.Equal(t, "", NodeData{}.TaskID())
}

func TestDates(t *testing.T) {
	a, ok := ParseDate("2024-06-01")
	require.True(t, ok)
	b, ok := ParseDate("2024-06-20")
	require.True(t, ok)
	assert.Equal(t, 19, DaysBetween(a, b))
	assert.Equal(t, -19, DaysBetween(b, a))

	_, ok = ParseDate("June 1st")
	assert.False(t, ok)

	assert.Equal(t, "2024-05-25", AddDays("2024-06-01", -7))
	assert.Equal(t, "garbage", AddDays("garbage", 3))

	local := time.Date(2024, 6, 1, 23, 30, 0, 0, time.FixedZone("x", 5*3600))
	assert.Equal(t, "2024-06-01", FormatDate(local))
}
