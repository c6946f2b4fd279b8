package models

import "time"

// Category groups tasks for progress reporting
type Category struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	ColorHex    string `gorm:"size:7;not null" json:"color_hex"`
}

// Priority is a task priority level, ordered by SortOrder
type Priority struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string `gorm:"size:20;not null;uniqueIndex" json:"level"`
	SortOrder int    `gorm:"not null" json:"sort_order"`
}

// TaskStatus is one of the Pending, In Progress or Completed buckets
type TaskStatus struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"size:50;not null;uniqueIndex" json:"name"`
	SortOrder int    `gorm:"not null" json:"sort_order"`
}

// Status names the aggregation queries bucket on
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Task is one OJT activity owned by a user
type Task struct {
	ID                   uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint64      `gorm:"not null;index" json:"user_id"`
	User                 *User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title                string      `gorm:"size:255;not null" json:"title"`
	Description          string      `gorm:"size:2000" json:"description"`
	CategoryID           *uint64     `gorm:"index" json:"category_id"`
	Category             *Category   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	PriorityID           *uint64     `gorm:"index" json:"priority_id"`
	Priority             *Priority   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	StatusID             uint64      `gorm:"not null;index" json:"status_id"`
	Status               *TaskStatus `json:"-"`
	DueDate              *Date       `json:"due_date"`
	EstimatedHours       *float64    `json:"estimated_hours"`
	ActualHours          *float64    `json:"actual_hours"`
	CompletionPercentage int         `gorm:"not null" json:"completion_percentage"`
	DatePerformed        *Date       `json:"date_performed"`
	HoursRendered        float64     `gorm:"not null" json:"hours_rendered"`
	Department           string      `gorm:"size:100" json:"department"`
	Supervisor           string      `gorm:"size:100" json:"supervisor"`
	Remarks              string      `gorm:"size:2000" json:"remarks"`
	DocumentID           *uint64     `gorm:"index" json:"document_id"`
	Document             *Document   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// TableName keeps the lookup table plural form stable
func (TaskStatus) TableName() string {
	return "task_statuses"
}
