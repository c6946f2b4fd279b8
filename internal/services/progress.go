package services

import (
	"time"

	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/stats"
	"gorm.io/gorm"
)

// ProgressOptions tunes a progress report
type ProgressOptions struct {
	IncludeEmptyCategories bool
	RequiredHours          float64
	Now                    time.Time
}

// Progress is the completion report for one user
type Progress struct {
	Overall       stats.Counts             `json:"overall"`
	ByCategory    []stats.CategoryProgress `json:"by_category"`
	ByPriority    []stats.PriorityProgress `json:"by_priority"`
	Milestones    []stats.Milestone        `json:"milestones"`
	NextMilestone *stats.NextMilestone     `json:"next_milestone"`
	Hours         stats.Hours              `json:"hours"`
	Overdue       int64                    `json:"overdue"`
}

type bucketRow struct {
	ID         uint64
	Name       string
	ColorHex   string
	Total      int64
	Completed  int64
	InProgress int64
	Pending    int64
}

func (r bucketRow) counts() stats.Counts {
	return stats.NewCounts(r.Total, r.Completed, r.InProgress, r.Pending)
}

const bucketColumns = "COUNT(t.id) AS total, " +
	"COALESCE(SUM(CASE WHEN ts.name = @completed THEN 1 ELSE 0 END), 0) AS completed, " +
	"COALESCE(SUM(CASE WHEN ts.name = @in_progress THEN 1 ELSE 0 END), 0) AS in_progress, " +
	"COALESCE(SUM(CASE WHEN ts.name = @pending THEN 1 ELSE 0 END), 0) AS pending"

func bucketArgs(extra map[string]any) map[string]any {
	args := map[string]any{
		"completed":   models.StatusCompleted,
		"in_progress": models.StatusInProgress,
		"pending":     models.StatusPending,
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

// GetProgress aggregates a user's tasks by status, category and priority.
// A user with no tasks gets 0% everywhere. Categories without tasks are
// omitted unless IncludeEmptyCategories is set.
func GetProgress(db *gorm.DB, userID uint64, opts ProgressOptions) (*Progress, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var overall struct {
		Bucket        bucketRow `gorm:"embedded"`
		HoursRendered float64
		Overdue       int64
	}
	err := db.Raw("SELECT "+bucketColumns+", "+
		"COALESCE(SUM(t.hours_rendered), 0) AS hours_rendered, "+
		"COALESCE(SUM(CASE WHEN t.due_date < @today AND (ts.name IS NULL OR ts.name <> @completed) THEN 1 ELSE 0 END), 0) AS overdue "+
		"FROM tasks t LEFT JOIN task_statuses ts ON ts.id = t.status_id "+
		"WHERE t.user_id = @user_id",
		bucketArgs(map[string]any{"user_id": userID, "today": models.NewDate(opts.Now)})).
		Scan(&overall).Error
	if err != nil {
		return nil, err
	}

	having := "HAVING COUNT(t.id) > 0 "
	if opts.IncludeEmptyCategories {
		having = ""
	}

	var catRows []bucketRow
	err = db.Raw("SELECT c.id, c.name, c.color_hex, "+bucketColumns+" "+
		"FROM categories c "+
		"LEFT JOIN tasks t ON t.category_id = c.id AND t.user_id = @user_id "+
		"LEFT JOIN task_statuses ts ON ts.id = t.status_id "+
		"GROUP BY c.id, c.name, c.color_hex "+having+
		"ORDER BY c.name",
		bucketArgs(map[string]any{"user_id": userID})).
		Scan(&catRows).Error
	if err != nil {
		return nil, err
	}

	var priRows []struct {
		Bucket    bucketRow `gorm:"embedded"`
		SortOrder int
	}
	err = db.Raw("SELECT p.id, p.level AS name, p.sort_order, "+bucketColumns+" "+
		"FROM priorities p "+
		"JOIN tasks t ON t.priority_id = p.id AND t.user_id = @user_id "+
		"LEFT JOIN task_statuses ts ON ts.id = t.status_id "+
		"GROUP BY p.id, p.level, p.sort_order "+
		"ORDER BY p.sort_order, p.id",
		bucketArgs(map[string]any{"user_id": userID})).
		Scan(&priRows).Error
	if err != nil {
		return nil, err
	}

	p := &Progress{
		Overall:    overall.Bucket.counts(),
		ByCategory: make([]stats.CategoryProgress, 0, len(catRows)),
		ByPriority: make([]stats.PriorityProgress, 0, len(priRows)),
		Hours:      stats.NewHours(overall.HoursRendered, opts.RequiredHours),
		Overdue:    overall.Overdue,
	}
	for _, r := range catRows {
		p.ByCategory = append(p.ByCategory, stats.CategoryProgress{ID: r.ID, Name: r.Name, ColorHex: r.ColorHex, Counts: r.counts()})
	}
	for _, r := range priRows {
		p.ByPriority = append(p.ByPriority, stats.PriorityProgress{ID: r.Bucket.ID, Level: r.Bucket.Name, SortOrder: r.SortOrder, Counts: r.Bucket.counts()})
	}
	p.Milestones = stats.Milestones(p.Overall.CompletionPercentage)
	p.NextMilestone = stats.Next(p.Overall)

	return p, nil
}
