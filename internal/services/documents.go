package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/localnerve/ojt-tracker/internal/logger"
	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/storage"
	"gorm.io/gorm"
)

// AllowedExtensions lists the upload file extensions in display order
var AllowedExtensions = []string{"pdf", "doc", "docx", "jpg", "jpeg", "png", "gif", "txt", "xlsx", "xls", "ppt", "pptx"}

// sniffLen is how much of an upload is read for MIME detection
const sniffLen = 3072

// FileStore is the file side of a document
type FileStore interface {
	Save(ext string, r io.Reader) (storage.StoredFile, error)
	Remove(name string) error
	List() ([]storage.Entry, error)
}

// UploadInput is a parsed multipart upload
type UploadInput struct {
	UserID       uint64
	Name         string
	Description  string
	Category     string
	OriginalName string
	Size         int64
	File         io.Reader
}

// ListDocuments returns a user's documents newest first. Category "all" or
// empty matches every category. Rows with a pending delete are hidden.
func ListDocuments(db *gorm.DB, userID uint64, category string) ([]models.Document, error) {
	q := db.Where("user_id = ? AND pending_delete = ?", userID, false)
	if category != "" && category != "all" {
		q = q.Where("category = ?", category)
	}
	docs := []models.Document{}
	err := q.Order("created_at DESC").Order("id DESC").Find(&docs).Error
	return docs, err
}

// DocumentOwner returns the owning user id of a visible document
func DocumentOwner(db *gorm.DB, id uint64) (uint64, error) {
	var doc models.Document
	err := db.Select("id", "user_id").Where("pending_delete = ?", false).First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, newError(ErrNotFound, "Document not found")
	}
	return doc.UserID, err
}

// UploadDocument validates an upload, stores the file and inserts its row.
// Extension and size are checked before anything is written. The stored
// file is removed again when the row cannot be inserted.
func UploadDocument(db *gorm.DB, store FileStore, in UploadInput, maxBytes int64) (*models.Document, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.UserID == 0 || in.Name == "" || in.Category == "" {
		return nil, newError(ErrValidation, "Missing required fields: user_id, name, or category")
	}
	if in.File == nil {
		return nil, newError(ErrValidation, "No file uploaded")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(in.OriginalName), "."))
	if !slices.Contains(AllowedExtensions, ext) {
		return nil, newError(ErrValidation, "File type not allowed. Allowed types: %s", strings.Join(AllowedExtensions, ", "))
	}
	if in.Size > maxBytes {
		return nil, newError(ErrValidation, "File size exceeds %s limit", formatMB(maxBytes))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.File, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	fileType := mimetype.Detect(head).String()

	// The declared size can lie, so the stream is capped as well
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), in.File), maxBytes+1)
	stored, err := store.Save(ext, body)
	if err != nil {
		return nil, err
	}
	if stored.Size > maxBytes {
		removeStored(store, stored.Name)
		return nil, newError(ErrValidation, "File size exceeds %s limit", formatMB(maxBytes))
	}

	doc := &models.Document{
		UserID:        in.UserID,
		Name:          in.Name,
		Description:   strings.TrimSpace(in.Description),
		Category:      in.Category,
		OriginalName:  filepath.Base(in.OriginalName),
		FileName:      stored.Name,
		FilePath:      stored.Path,
		FileSize:      stored.Size,
		FileType:      fileType,
		FileExtension: ext,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		return LogActivity(tx, doc.UserID, nil, models.ActionDocUploaded, "Document uploaded: "+doc.Name,
			map[string]any{"document_id": doc.ID, "file_size": doc.FileSize})
	})
	if err != nil {
		removeStored(store, stored.Name)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes a document in two phases. The row is first marked
// pending_delete, then the file is removed, then the row is deleted. When
// the file cannot be removed the row stays hidden for the reconciler.
func DeleteDocument(db *gorm.DB, store FileStore, id uint64) error {
	var doc models.Document
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pending_delete = ?", false).First(&doc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(ErrNotFound, "Document not found")
			}
			return err
		}
		result := tx.Model(&models.Document{}).
			Where("id = ? AND pending_delete = ?", id, false).
			Update("pending_delete", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return newError(ErrNotFound, "Document not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := store.Remove(doc.FileName); err != nil {
		logger.Warn("document file removal deferred", "document_id", doc.ID, "file", doc.FileName, "error", err)
		return nil
	}
	return finishDelete(db, &doc)
}

// finishDelete drops a pending document row and logs document_deleted for its owner
func finishDelete(db *gorm.DB, doc *models.Document) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Document{}, doc.ID).Error; err != nil {
			return err
		}
		return LogActivity(tx, doc.UserID, nil, models.ActionDocDeleted, "Document deleted: "+doc.Name,
			map[string]any{"document_id": doc.ID})
	})
}

func removeStored(store FileStore, name string) {
	if err := store.Remove(name); err != nil {
		logger.Warn("failed to remove stored file", "file", name, "error", err)
	}
}

func formatMB(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%.1fMB", float64(n)/mb)
}
