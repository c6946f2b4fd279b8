package models

import "time"

// Roles a user account can hold
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account that owns tasks, documents and activity
type User struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username      string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password      string    `gorm:"size:255;not null" json:"-"`
	FullName      string    `gorm:"size:100" json:"full_name"`
	Role          string    `gorm:"column:user_type;size:20;not null" json:"role"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	RememberToken *string   `gorm:"size:64;index" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
