package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/localnerve/ojt-tracker/data"
	"github.com/localnerve/ojt-tracker/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Lookups is the reference data shape of data/seed/lookups.json
type Lookups struct {
	Categories []models.Category   `json:"categories"`
	Priorities []models.Priority   `json:"priorities"`
	Statuses   []models.TaskStatus `json:"statuses"`
}

// LoadLookups decodes the embedded reference data
func LoadLookups() (*Lookups, error) {
	var l Lookups
	if err := json.Unmarshal(data.Lookups, &l); err != nil {
		return nil, fmt.Errorf("failed to decode seed lookups: %w", err)
	}
	return &l, nil
}

// Seed inserts missing reference rows in file order. Existing rows are left untouched.
func Seed(db *gorm.DB) error {
	l, err := LoadLookups()
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, c := range l.Categories {
			if err := tx.Where(models.Category{Name: c.Name}).Attrs(c).FirstOrCreate(&models.Category{}).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
			}
		}
		for _, p := range l.Priorities {
			if err := tx.Where(models.Priority{Level: p.Level}).Attrs(p).FirstOrCreate(&models.Priority{}).Error; err != nil {
				return fmt.Errorf("failed to seed priority %s: %w", p.Level, err)
			}
		}
		for _, s := range l.Statuses {
			if err := tx.Where(models.TaskStatus{Name: s.Name}).Attrs(s).FirstOrCreate(&models.TaskStatus{}).Error; err != nil {
				return fmt.Errorf("failed to seed status %s: %w", s.Name, err)
			}
		}
		slog.Info("reference data seeded",
			"categories", len(l.Categories), "priorities", len(l.Priorities), "statuses", len(l.Statuses))
		return nil
	})
}

// EnsureAdmin creates an active admin account when no user has the username.
// It reports whether a user was created.
func EnsureAdmin(db *gorm.DB, username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin account created", "username", username)
	return true, nil
}
