// Package stats holds the progress arithmetic shared by the progress service
// and the API client's offline fallback, so both round the same way.
package stats

import (
	"math"
	"sort"
	"time"
)

// Status bucket names
const (
	Pending    = "Pending"
	InProgress = "In Progress"
	Completed  = "Completed"
)

// Counts is a status breakdown with its completion percentage
type Counts struct {
	Total                int64   `json:"total"`
	Completed            int64   `json:"completed"`
	InProgress           int64   `json:"in_progress"`
	Pending              int64   `json:"pending"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// NewCounts fills in the completion percentage
func NewCounts(total, completed, inProgress, pending int64) Counts {
	return Counts{
		Total:                total,
		Completed:            completed,
		InProgress:           inProgress,
		Pending:              pending,
		CompletionPercentage: Percentage(completed, total),
	}
}

// Add tallies one task with the given status name
func (c *Counts) Add(status string) {
	c.Total++
	switch status {
	case Completed:
		c.Completed++
	case InProgress:
		c.InProgress++
	case Pending:
		c.Pending++
	}
	c.CompletionPercentage = Percentage(c.Completed, c.Total)
}

// CategoryProgress is the per category breakdown
type CategoryProgress struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	ColorHex string `json:"color_hex"`
	Counts
}

// PriorityProgress is the per priority breakdown
type PriorityProgress struct {
	ID        uint64 `json:"id"`
	Level     string `json:"level"`
	SortOrder int    `json:"-"`
	Counts
}

// Percentage returns part/total*100 rounded to two decimals, or 0 when total is 0
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Hours compares rendered OJT hours against the required total
type Hours struct {
	Required   float64 `json:"required"`
	Rendered   float64 `json:"rendered"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// NewHours caps the percentage at 100 and the remainder at 0
func NewHours(rendered, required float64) Hours {
	h := Hours{Required: required, Rendered: Round2(rendered)}
	if required <= 0 {
		return h
	}
	h.Remaining = Round2(math.Max(required-rendered, 0))
	h.Percentage = Round2(math.Min(rendered/required*100, 100))
	return h
}

// Milestone is a fixed completion threshold
type Milestone struct {
	Percent int    `json:"percent"`
	Label   string `json:"label"`
	Reached bool   `json:"reached"`
}

// NextMilestone is the first unreached threshold and the tasks needed to reach it
type NextMilestone struct {
	Percent         int    `json:"percent"`
	Label           string `json:"label"`
	TasksToComplete int64  `json:"tasks_to_complete"`
}

var milestones = []Milestone{
	{Percent: 25, Label: "25% Complete"},
	{Percent: 50, Label: "Halfway There!"},
	{Percent: 75, Label: "75% Complete"},
	{Percent: 100, Label: "All Done!"},
}

// Milestones marks which thresholds a completion percentage has reached
func Milestones(pct float64) []Milestone {
	out := make([]Milestone, len(milestones))
	for i, m := range milestones {
		m.Reached = pct >= float64(m.Percent)
		out[i] = m
	}
	return out
}

// Next returns the next milestone for c, or nil when there are no tasks or all are done
func Next(c Counts) *NextMilestone {
	if c.Total == 0 {
		return nil
	}
	for _, m := range milestones {
		if c.CompletionPercentage >= float64(m.Percent) {
			continue
		}
		needed := int64(math.Ceil(float64(m.Percent)*float64(c.Total)/100)) - c.Completed
		if needed < 1 {
			needed = 1
		}
		return &NextMilestone{Percent: m.Percent, Label: m.Label, TasksToComplete: needed}
	}
	return nil
}

// Item is the minimal view of a task the fallback summary needs
type Item struct {
	Status        string
	CategoryID    uint64
	CategoryName  string
	CategoryColor string
	PriorityID    uint64
	PriorityLevel string
	DueDate       time.Time
	HoursRendered float64
}

// Summary is a locally computed progress report
type Summary struct {
	Overall    Counts             `json:"overall"`
	ByCategory []CategoryProgress `json:"by_category"`
	ByPriority []PriorityProgress `json:"by_priority"`
	Overdue    int64              `json:"overdue"`
	Hours      Hours              `json:"hours"`
}

// Summarize computes the same report the progress endpoint serves from a task list.
// Categories and priorities with no tasks are omitted, matching the server default.
func Summarize(items []Item, requiredHours float64, now time.Time) Summary {
	var (
		s        Summary
		rendered float64
		cats     = map[uint64]*CategoryProgress{}
		pris     = map[uint64]*PriorityProgress{}
	)
	today := startOfDay(now)

	for _, it := range items {
		s.Overall.Add(it.Status)
		rendered += it.HoursRendered

		if it.CategoryID != 0 {
			cp, ok := cats[it.CategoryID]
			if !ok {
				cp = &CategoryProgress{ID: it.CategoryID, Name: it.CategoryName, ColorHex: it.CategoryColor}
				cats[it.CategoryID] = cp
			}
			cp.Add(it.Status)
		}
		if it.PriorityID != 0 {
			pp, ok := pris[it.PriorityID]
			if !ok {
				pp = &PriorityProgress{ID: it.PriorityID, Level: it.PriorityLevel}
				pris[it.PriorityID] = pp
			}
			pp.Add(it.Status)
		}
		if IsOverdue(it.DueDate, it.Status, today) {
			s.Overdue++
		}
	}

	s.ByCategory = make([]CategoryProgress, 0, len(cats))
	for _, cp := range cats {
		s.ByCategory = append(s.ByCategory, *cp)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool { return s.ByCategory[i].Name < s.ByCategory[j].Name })

	s.ByPriority = make([]PriorityProgress, 0, len(pris))
	for _, pp := range pris {
		s.ByPriority = append(s.ByPriority, *pp)
	}
	sort.Slice(s.ByPriority, func(i, j int) bool { return s.ByPriority[i].ID < s.ByPriority[j].ID })

	s.Hours = NewHours(rendered, requiredHours)
	return s
}

// IsOverdue reports a due date strictly before today on a task that is not completed
func IsOverdue(due time.Time, status string, today time.Time) bool {
	return !due.IsZero() && status != Completed && due.Before(startOfDay(today))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
