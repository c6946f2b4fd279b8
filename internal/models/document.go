package models

import "time"

// Document is an uploaded file plus its metadata row. FileName is the
// generated stored name, OriginalName the name the client uploaded.
// PendingDelete marks rows whose file removal has started but not finished.
type Document struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint64    `gorm:"not null;index" json:"user_id"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"size:1000" json:"description"`
	Category      string    `gorm:"size:50;not null;index" json:"category"`
	OriginalName  string    `gorm:"size:255" json:"original_name"`
	FileName      string    `gorm:"size:255;not null;uniqueIndex" json:"file_name"`
	FilePath      string    `gorm:"size:500;not null" json:"file_path"`
	FileSize      int64     `gorm:"not null" json:"file_size"`
	FileType      string    `gorm:"size:100" json:"file_type"`
	FileExtension string    `gorm:"size:10" json:"file_extension"`
	PendingDelete bool      `gorm:"not null;index" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
