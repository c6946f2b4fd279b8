package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// TaskFilter narrows a task listing
type TaskFilter struct {
	UserID     uint64
	Status     string // status name, e.g. "In Progress"
	CategoryID uint64
}

// TaskView is a task with its lookup names resolved
type TaskView struct {
	models.Task
	CategoryName  string `json:"category_name"`
	CategoryColor string `json:"category_color"`
	PriorityName  string `json:"priority_name"`
	StatusName    string `json:"status_name"`
}

// TaskInput is the body of a task create request
type TaskInput struct {
	UserID         types.FlexUint64 `json:"user_id" validate:"required"`
	Title          string           `json:"title" validate:"required,max=255"`
	Description    string           `json:"description" validate:"max=2000"`
	CategoryID     types.FlexUint64 `json:"category_id"`
	PriorityID     types.FlexUint64 `json:"priority_id"`
	StatusID       types.FlexUint64 `json:"status_id"`
	DueDate        *models.Date     `json:"due_date"`
	EstimatedHours *float64         `json:"estimated_hours" validate:"omitempty,gte=0"`
	DatePerformed  *models.Date     `json:"date_performed"`
	HoursRendered  float64          `json:"hours_rendered" validate:"gte=0"`
	Department     string           `json:"department" validate:"max=100"`
	Supervisor     string           `json:"supervisor" validate:"max=100"`
	Remarks        string           `json:"remarks" validate:"max=2000"`
	DocumentID     types.FlexUint64 `json:"document_id"`
}

// TaskPatch lists the mutable task fields. Nil fields are left unchanged.
// A zero id or an empty date clears the corresponding nullable column.
type TaskPatch struct {
	Title                *string           `json:"title" validate:"omitempty,max=255"`
	Description          *string           `json:"description" validate:"omitempty,max=2000"`
	CategoryID           *types.FlexUint64 `json:"category_id"`
	PriorityID           *types.FlexUint64 `json:"priority_id"`
	StatusID             *types.FlexUint64 `json:"status_id"`
	DueDate              *models.Date      `json:"due_date"`
	EstimatedHours       *float64          `json:"estimated_hours" validate:"omitempty,gte=0"`
	ActualHours          *float64          `json:"actual_hours" validate:"omitempty,gte=0"`
	CompletionPercentage *int              `json:"completion_percentage" validate:"omitempty,gte=0,lte=100"`
	DatePerformed        *models.Date      `json:"date_performed"`
	HoursRendered        *float64          `json:"hours_rendered" validate:"omitempty,gte=0"`
	Department           *string           `json:"department" validate:"omitempty,max=100"`
	Supervisor           *string           `json:"supervisor" validate:"omitempty,max=100"`
	Remarks              *string           `json:"remarks" validate:"omitempty,max=2000"`
	DocumentID           *types.FlexUint64 `json:"document_id"`
}

// Updates renders the patch as a column map, empty when nothing is set
func (p TaskPatch) Updates() (map[string]any, error) {
	u := map[string]any{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, newError(ErrValidation, "Title cannot be empty")
		}
		u["title"] = title
	}
	if p.Description != nil {
		u["description"] = strings.TrimSpace(*p.Description)
	}
	if p.CategoryID != nil {
		u["category_id"] = p.CategoryID.Ptr()
	}
	if p.PriorityID != nil {
		u["priority_id"] = p.PriorityID.Ptr()
	}
	if p.StatusID != nil {
		if *p.StatusID == 0 {
			return nil, newError(ErrValidation, "Status ID cannot be empty")
		}
		u["status_id"] = p.StatusID.Uint64()
	}
	if p.DueDate != nil {
		u["due_date"] = *p.DueDate
	}
	if p.EstimatedHours != nil {
		u["estimated_hours"] = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		u["actual_hours"] = *p.ActualHours
	}
	if p.CompletionPercentage != nil {
		u["completion_percentage"] = *p.CompletionPercentage
	}
	if p.DatePerformed != nil {
		u["date_performed"] = *p.DatePerformed
	}
	if p.HoursRendered != nil {
		u["hours_rendered"] = *p.HoursRendered
	}
	if p.Department != nil {
		u["department"] = strings.TrimSpace(*p.Department)
	}
	if p.Supervisor != nil {
		u["supervisor"] = strings.TrimSpace(*p.Supervisor)
	}
	if p.Remarks != nil {
		u["remarks"] = *p.Remarks
	}
	if p.DocumentID != nil {
		u["document_id"] = p.DocumentID.Ptr()
	}
	return u, nil
}

// ListTasks returns a user's tasks ordered by due date (undated last) then priority
func ListTasks(db *gorm.DB, filter TaskFilter) ([]TaskView, error) {
	q := db.Clauses(hints.Comment("select", "task_list")).
		Model(&models.Task{}).
		Preload("Category").
		Preload("Priority").
		Preload("Status").
		Where("user_id = ?", filter.UserID)

	if filter.Status != "" {
		q = q.Where("status_id IN (?)", db.Model(&models.TaskStatus{}).Select("id").Where("name = ?", filter.Status))
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	var tasks []models.Task
	err := q.Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END").
		Order("due_date ASC").
		Order("priority_id ASC").
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, len(tasks))
	for i := range tasks {
		views[i] = newTaskView(tasks[i])
	}
	return views, nil
}

// GetTask loads one task with its lookup names
func GetTask(db *gorm.DB, id uint64) (*TaskView, error) {
	var task models.Task
	err := db.Preload("Category").Preload("Priority").Preload("Status").First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, "Task not found")
	}
	if err != nil {
		return nil, err
	}
	view := newTaskView(task)
	return &view, nil
}

// CreateTask inserts a task and its task_created activity in one transaction.
// The status defaults to Pending.
func CreateTask(db *gorm.DB, in TaskInput) (uint64, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.UserID == 0 || in.Title == "" {
		return 0, newError(ErrValidation, "User ID and Title are required")
	}
	if err := validateStruct(in); err != nil {
		return 0, err
	}

	task := models.Task{
		UserID:         in.UserID.Uint64(),
		Title:          in.Title,
		Description:    strings.TrimSpace(in.Description),
		CategoryID:     in.CategoryID.Ptr(),
		PriorityID:     in.PriorityID.Ptr(),
		StatusID:       in.StatusID.Uint64(),
		DueDate:        nonZeroDate(in.DueDate),
		EstimatedHours: in.EstimatedHours,
		DatePerformed:  nonZeroDate(in.DatePerformed),
		HoursRendered:  in.HoursRendered,
		Department:     strings.TrimSpace(in.Department),
		Supervisor:     strings.TrimSpace(in.Supervisor),
		Remarks:        in.Remarks,
		DocumentID:     in.DocumentID.Ptr(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if task.StatusID == 0 {
			id, err := statusIDByName(tx, models.StatusPending)
			if err != nil {
				return err
			}
			task.StatusID = id
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return LogActivity(tx, task.UserID, &task.ID, models.ActionTaskCreated, "Task created: "+task.Title, nil)
	})
	if err != nil {
		return 0, err
	}
	return task.ID, nil
}

// UpdateTask applies patch to a task and records task_updated under actorID.
// An empty patch fails with ErrNoFields and leaves updated_at alone.
func UpdateTask(db *gorm.DB, id, actorID uint64, patch TaskPatch) error {
	if err := validateStruct(patch); err != nil {
		return err
	}
	updates, err := patch.Updates()
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return ErrNoFields
	}
	updates["updated_at"] = time.Now()

	return db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(ErrNotFound, "Task not found")
			}
			return err
		}

		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}

		if actorID == 0 {
			actorID = task.UserID
		}
		fields := make([]string, 0, len(updates))
		for k := range updates {
			if k != "updated_at" {
				fields = append(fields, k)
			}
		}
		slices.Sort(fields)
		return LogActivity(tx, actorID, &task.ID, models.ActionTaskUpdated, "Task updated: "+task.Title,
			map[string]any{"fields": fields})
	})
}

// DeleteTask removes a task and records task_deleted in the same transaction.
// The activity row is kept because activity_logs.task_id has no foreign key.
func DeleteTask(db *gorm.DB, id, actorID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(ErrNotFound, "Task not found")
			}
			return err
		}

		result := tx.Delete(&models.Task{}, task.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return newError(ErrNotFound, "Task not found")
		}

		// Logged under the owner, a different actor goes in the metadata
		var meta any
		if actorID != 0 && actorID != task.UserID {
			meta = map[string]any{"deleted_by": actorID}
		}
		return LogActivity(tx, task.UserID, &task.ID, models.ActionTaskDeleted, "Task deleted: "+task.Title, meta)
	})
}

// TaskOwner returns the owning user id of a task
func TaskOwner(db *gorm.DB, id uint64) (uint64, error) {
	var task models.Task
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Select("id", "user_id").First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, newError(ErrNotFound, "Task not found")
	}
	return task.UserID, err
}

func statusIDByName(db *gorm.DB, name string) (uint64, error) {
	var status models.TaskStatus
	if err := db.Where("name = ?", name).First(&status).Error; err != nil {
		return 0, fmt.Errorf("status %q lookup failed: %w", name, err)
	}
	return status.ID, nil
}

func newTaskView(t models.Task) TaskView {
	v := TaskView{Task: t}
	if t.Category != nil {
		v.CategoryName = t.Category.Name
		v.CategoryColor = t.Category.ColorHex
	}
	if t.Priority != nil {
		v.PriorityName = t.Priority.Level
	}
	if t.Status != nil {
		v.StatusName = t.Status.Name
	}
	return v
}

func nonZeroDate(d *models.Date) *models.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}
