package client

import (
	"time"

	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/stats"
)

// Progress is a progress report. Local is set when it was computed from the
// cached task list instead of fetched.
type Progress struct {
	services.Progress
	Local bool `json:"local"`
}

// Summarize builds the progress report for a task list with the server's rounding
func Summarize(tasks []services.TaskView, requiredHours float64, now time.Time) *Progress {
	items := make([]stats.Item, len(tasks))
	for i, t := range tasks {
		it := stats.Item{
			Status:        t.StatusName,
			CategoryName:  t.CategoryName,
			CategoryColor: t.CategoryColor,
			PriorityLevel: t.PriorityName,
			HoursRendered: t.HoursRendered,
		}
		if t.CategoryID != nil {
			it.CategoryID = *t.CategoryID
		}
		if t.PriorityID != nil {
			it.PriorityID = *t.PriorityID
		}
		if t.DueDate != nil {
			it.DueDate = t.DueDate.Time()
		}
		items[i] = it
	}

	s := stats.Summarize(items, requiredHours, now)
	return &Progress{
		Progress: services.Progress{
			Overall:       s.Overall,
			ByCategory:    s.ByCategory,
			ByPriority:    s.ByPriority,
			Milestones:    stats.Milestones(s.Overall.CompletionPercentage),
			NextMilestone: stats.Next(s.Overall),
			Hours:         s.Hours,
			Overdue:       s.Overdue,
		},
		Local: true,
	}
}
