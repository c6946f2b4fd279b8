package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 100.0, Percentage(1, 1))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 14.29, Percentage(1, 7))
}

func TestNewCountsZeroTasks(t *testing.T) {
	c := NewCounts(0, 0, 0, 0)
	assert.Equal(t, 0.0, c.CompletionPercentage)
	assert.Nil(t, Next(c))
}

func TestMilestones(t *testing.T) {
	ms := Milestones(50)
	require.Len(t, ms, 4)
	assert.True(t, ms[0].Reached)
	assert.True(t, ms[1].Reached)
	assert.False(t, ms[2].Reached)
	assert.Equal(t, "Halfway There!", ms[1].Label)
}

func TestNext(t *testing.T) {
	// 1 of 8 done, 25% means 2 completed
	next := Next(NewCounts(8, 1, 0, 7))
	require.NotNil(t, next)
	assert.Equal(t, 25, next.Percent)
	assert.Equal(t, int64(1), next.TasksToComplete)

	// 3 of 4 done
	next = Next(NewCounts(4, 3, 1, 0))
	require.NotNil(t, next)
	assert.Equal(t, 100, next.Percent)
	assert.Equal(t, "All Done!", next.Label)
	assert.Equal(t, int64(1), next.TasksToComplete)

	assert.Nil(t, Next(NewCounts(2, 2, 0, 0)))
}

func TestNewHours(t *testing.T) {
	h := NewHours(120, 480)
	assert.Equal(t, 25.0, h.Percentage)
	assert.Equal(t, 360.0, h.Remaining)

	over := NewHours(500, 480)
	assert.Equal(t, 100.0, over.Percentage)
	assert.Equal(t, 0.0, over.Remaining)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	items := []Item{
		{Status: Completed, CategoryID: 1, CategoryName: "Development", CategoryColor: "#3b82f6", PriorityID: 1, PriorityLevel: "High", HoursRendered: 8},
		{Status: Pending, CategoryID: 1, CategoryName: "Development", CategoryColor: "#3b82f6", PriorityID: 2, PriorityLevel: "Medium", DueDate: now.AddDate(0, 0, -1)},
		{Status: InProgress, CategoryID: 2, CategoryName: "Documentation", PriorityID: 2, PriorityLevel: "Medium", DueDate: now, HoursRendered: 4},
		{Status: Completed, DueDate: now.AddDate(0, 0, -3)},
	}

	s := Summarize(items, 480, now)
	assert.Equal(t, NewCounts(4, 2, 1, 1), s.Overall)
	assert.Equal(t, int64(1), s.Overdue)
	assert.Equal(t, 12.0, s.Hours.Rendered)

	require.Len(t, s.ByCategory, 2)
	assert.Equal(t, "Development", s.ByCategory[0].Name)
	assert.Equal(t, "#3b82f6", s.ByCategory[0].ColorHex)
	assert.Equal(t, 50.0, s.ByCategory[0].CompletionPercentage)
	assert.Equal(t, 0.0, s.ByCategory[1].CompletionPercentage)

	require.Len(t, s.ByPriority, 2)
	assert.Equal(t, "High", s.ByPriority[0].Level)
	assert.Equal(t, int64(2), s.ByPriority[1].Total)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 480, time.Now())
	assert.Equal(t, 0.0, s.Overall.CompletionPercentage)
	assert.Empty(t, s.ByCategory)
	assert.Equal(t, 480.0, s.Hours.Remaining)
}

func TestProgressFieldNames(t *testing.T) {
	raw, err := json.Marshal(CategoryProgress{ID: 1, Name: "Development", ColorHex: "#3498db", Counts: NewCounts(3, 1, 1, 1)})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "name", "color_hex", "total", "completed", "in_progress", "pending", "completion_percentage"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, 33.33, fields["completion_percentage"])
}
