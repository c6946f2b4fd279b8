package services

import (
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// UserSummary is a user row with task totals for the admin list
type UserSummary struct {
	ID             uint64    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	TaskCount      int64     `json:"task_count"`
	CompletedCount int64     `json:"completed_count"`
}

// UserPatch is the body of an update_user request. Nil fields are unchanged,
// Role and IsActive only apply when the caller is an admin.
type UserPatch struct {
	UserID   types.FlexUint64 `json:"userId"`
	FullName *string          `json:"fullName" validate:"omitempty,max=100"`
	Email    *string          `json:"email"`
	Username *string          `json:"username"`
	Role     *string          `json:"role"`
	UserType *string          `json:"userType"`
	IsActive *bool            `json:"isActive"`
	Password *string          `json:"password"`
}

// ListUsers returns every user with total and completed task counts, newest first
func ListUsers(db *gorm.DB) ([]UserSummary, error) {
	users := []UserSummary{}
	err := db.Clauses(hints.Comment("select", "user_list")).
		Table("users AS u").
		Select("u.id, u.username, u.email, u.full_name, u.user_type AS role, u.is_active, u.created_at, u.updated_at, "+
			"COUNT(DISTINCT t.id) AS task_count, "+
			"COUNT(DISTINCT CASE WHEN ts.name = ? THEN t.id END) AS completed_count", models.StatusCompleted).
		Joins("LEFT JOIN tasks t ON t.user_id = u.id").
		Joins("LEFT JOIN task_statuses ts ON ts.id = t.status_id").
		Group("u.id, u.username, u.email, u.full_name, u.user_type, u.is_active, u.created_at, u.updated_at").
		Order("u.created_at DESC").
		Order("u.id DESC").
		Scan(&users).Error
	return users, err
}

// updates validates the patch for actor and returns the column changes
func (p UserPatch) updates(db *gorm.DB, actor SessionUser, targetID uint64) (map[string]any, error) {
	if err := validateStruct(p); err != nil {
		return nil, err
	}

	u := map[string]any{}
	if p.FullName != nil {
		u["full_name"] = strings.TrimSpace(*p.FullName)
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, newError(ErrValidation, "Invalid email format")
		}
		if err := checkUnique(db, "email", email, targetID, "Email already exists"); err != nil {
			return nil, err
		}
		u["email"] = email
	}
	if p.Username != nil {
		username := strings.TrimSpace(*p.Username)
		if utf8.RuneCountInString(username) < MinUsernameLength {
			return nil, newError(ErrValidation, "Username must be at least %d characters long", MinUsernameLength)
		}
		if err := checkUnique(db, "username", username, targetID, "Username already exists"); err != nil {
			return nil, err
		}
		u["username"] = username
	}

	if actor.IsAdmin() {
		role := p.Role
		if role == nil {
			role = p.UserType
		}
		if role != nil {
			if !slices.Contains([]string{models.RoleAdmin, models.RoleUser}, *role) {
				return nil, newError(ErrValidation, "Role must be one of: admin user")
			}
			u["user_type"] = *role
		}
		if p.IsActive != nil {
			u["is_active"] = *p.IsActive
			if !*p.IsActive {
				u["remember_token"] = nil
			}
		}
	}

	if p.Password != nil && *p.Password != "" {
		if utf8.RuneCountInString(*p.Password) < MinPasswordLength {
			return nil, newError(ErrValidation, "Password must be at least %d characters long", MinPasswordLength)
		}
		hash, err := HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		u["password"] = hash
	}
	return u, nil
}

// UpdateUser patches a user on behalf of actor. Non-admins may only update themselves.
// The profile_update activity is recorded under the actor.
func UpdateUser(db *gorm.DB, actor SessionUser, patch UserPatch) (*models.User, error) {
	targetID := patch.UserID.Uint64()
	if targetID == 0 {
		return nil, newError(ErrValidation, "User ID is required")
	}
	if !actor.IsAdmin() && targetID != actor.ID {
		return nil, newError(ErrForbidden, "Access denied")
	}

	var user models.User
	if err := db.First(&user, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, err
	}

	updates, err := patch.updates(db, actor, targetID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, ErrNoFields
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		user = models.User{}
		if err := tx.First(&user, targetID).Error; err != nil {
			return err
		}
		return LogActivity(tx, actor.ID, nil, models.ActionProfileUpdate, "Profile updated for user: "+user.Username, nil)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user and, by cascade, their tasks, documents and activity.
// Only admins may delete, never themselves. The user_deleted activity is
// recorded under the acting admin in the same transaction.
func DeleteUser(db *gorm.DB, actor SessionUser, targetID uint64) error {
	if !actor.IsAdmin() {
		return newError(ErrForbidden, "Access denied. Admin only.")
	}
	if targetID == 0 {
		return newError(ErrValidation, "User ID is required")
	}
	if targetID == actor.ID {
		return newError(ErrValidation, "You cannot delete your own account")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(ErrNotFound, "User not found")
			}
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return LogActivity(tx, actor.ID, nil, models.ActionUserDeleted, "Deleted user: "+user.Username,
			map[string]any{"deleted_user_id": user.ID})
	})
}
