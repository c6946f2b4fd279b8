// Package testutil builds seeded in-memory databases and fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/localnerve/ojt-tracker/internal/database"
	"github.com/localnerve/ojt-tracker/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain text password of every fixture user
const Password = "password"

// Config returns a valid configuration backed by an in-memory cgo-free sqlite
// database and a temporary upload directory.
func Config(t testing.TB) *config.Config {
	t.Helper()
	return &config.Config{
		Port:              "0",
		AppURL:            "*",
		DBType:            "sqlite-pure",
		DBName:            ":memory:",
		DBConnectionLimit: 1,
		DBLogLevel:        "silent",
		SessionSecret:     "test-session-secret",
		SessionTTL:        time.Hour,
		RememberTTL:       30 * 24 * time.Hour,
		UploadDir:         t.TempDir(),
		MaxUploadBytes:    10 * 1024 * 1024,
		ReconcileSchedule: "@every 1h",
		OrphanGrace:       time.Hour,
		RequiredHours:     480,
		Log:               config.LogConfig{Level: "error", Console: true},
	}
}

// NewDB opens, migrates and seeds a fresh database for cfg
func NewDB(t testing.TB, cfg *config.Config) *gorm.DB {
	t.Helper()

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return db
}

// CreateUser inserts an active user whose password is Password
func CreateUser(t testing.TB, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		FullName: username,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTask inserts a task for userID with the given status id
func CreateTask(t testing.TB, db *gorm.DB, userID uint64, title string, categoryID, statusID uint64) *models.Task {
	t.Helper()

	task := &models.Task{UserID: userID, Title: title, StatusID: statusID}
	if categoryID != 0 {
		task.CategoryID = &categoryID
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("Failed to create task %s: %v", title, err)
	}
	return task
}
