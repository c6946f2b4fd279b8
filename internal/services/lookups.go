package services

import (
	"github.com/localnerve/ojt-tracker/internal/models"
	"gorm.io/gorm"
)

// ListCategories returns every category by name
func ListCategories(db *gorm.DB) ([]models.Category, error) {
	categories := []models.Category{}
	err := db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// ListPriorities returns priorities highest first
func ListPriorities(db *gorm.DB) ([]models.Priority, error) {
	priorities := []models.Priority{}
	err := db.Order("sort_order ASC").Order("id ASC").Find(&priorities).Error
	return priorities, err
}

// ListStatuses returns the status buckets in workflow order
func ListStatuses(db *gorm.DB) ([]models.TaskStatus, error) {
	statuses := []models.TaskStatus{}
	err := db.Order("sort_order ASC").Order("id ASC").Find(&statuses).Error
	return statuses, err
}
