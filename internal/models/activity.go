package models

import "time"

// Activity action types written by the service layer
const (
	ActionTaskCreated   = "task_created"
	ActionTaskUpdated   = "task_updated"
	ActionTaskDeleted   = "task_deleted"
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionSignup        = "signup"
	ActionProfileUpdate = "profile_update"
	ActionUserDeleted   = "user_deleted"
	ActionDocUploaded   = "document_uploaded"
	ActionDocDeleted    = "document_deleted"
)

// ActivityLog is an append-only audit row. TaskID carries no foreign key so
// entries outlive the task they describe.
type ActivityLog struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TaskID      *uint64   `gorm:"index" json:"task_id"`
	ActionType  string    `gorm:"size:50;not null;index" json:"action_type"`
	Description string    `gorm:"size:1000" json:"description"`
	Metadata    JSON      `json:"metadata"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
