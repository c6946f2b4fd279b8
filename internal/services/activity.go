package services

import (
	"strings"
	"time"

	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Activity list bounds
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
)

// ActivityEntry is a client supplied activity row
type ActivityEntry struct {
	UserID      types.FlexUint64 `json:"user_id" validate:"required"`
	TaskID      types.FlexUint64 `json:"task_id"`
	ActionType  string           `json:"action_type" validate:"required,max=50"`
	Description string           `json:"description" validate:"max=1000"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
}

// ActivityView is an activity row joined with its task title and username
type ActivityView struct {
	ID          uint64      `json:"id"`
	UserID      uint64      `json:"user_id"`
	TaskID      *uint64     `json:"task_id"`
	ActionType  string      `json:"action_type"`
	Description string      `json:"description"`
	Metadata    models.JSON `json:"metadata"`
	CreatedAt   time.Time   `json:"created_at"`
	TaskTitle   *string     `json:"task_title"`
	Username    string      `json:"username"`
}

// LogActivity inserts one activity row. Pass the transaction when the row
// must commit together with the mutation it describes.
func LogActivity(db *gorm.DB, userID uint64, taskID *uint64, action, description string, metadata any) error {
	meta, err := models.NewJSON(metadata)
	if err != nil {
		return err
	}
	return db.Create(&models.ActivityLog{
		UserID:      userID,
		TaskID:      taskID,
		ActionType:  action,
		Description: description,
		Metadata:    meta,
	}).Error
}

// AppendActivity validates and stores client entries atomically, returning their ids
func AppendActivity(db *gorm.DB, entries []ActivityEntry) ([]uint64, error) {
	if len(entries) == 0 {
		return nil, newError(ErrValidation, "No activity entries supplied")
	}

	rows := make([]models.ActivityLog, 0, len(entries))
	for _, e := range entries {
		e.ActionType = strings.TrimSpace(e.ActionType)
		if err := validateStruct(e); err != nil {
			return nil, err
		}
		meta, err := models.NewJSON(nilIfEmpty(e.Metadata))
		if err != nil {
			return nil, newError(ErrValidation, "Invalid metadata: %v", err)
		}
		rows = append(rows, models.ActivityLog{
			UserID:      e.UserID.Uint64(),
			TaskID:      e.TaskID.Ptr(),
			ActionType:  e.ActionType,
			Description: e.Description,
			Metadata:    meta,
		})
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	}); err != nil {
		return nil, err
	}

	ids := make([]uint64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// ListActivity returns a user's newest activity first
func ListActivity(db *gorm.DB, userID uint64, limit int) ([]ActivityView, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	limit = min(limit, MaxActivityLimit)

	views := []ActivityView{}
	err := db.Clauses(hints.Comment("select", "activity_list")).
		Table("activity_logs AS a").
		Select("a.id, a.user_id, a.task_id, a.action_type, a.description, a.metadata, a.created_at, t.title AS task_title, u.username").
		Joins("LEFT JOIN tasks t ON t.id = a.task_id").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Where("a.user_id = ?", userID).
		Order("a.created_at DESC").
		Order("a.id DESC").
		Limit(limit).
		Scan(&views).Error
	return views, err
}

func nilIfEmpty(m map[string]any) any {
	if len(m) == 0 {
		return nil
	}
	return m
}
