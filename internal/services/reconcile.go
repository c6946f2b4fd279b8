package services

import (
	"context"
	"strings"
	"time"

	"github.com/localnerve/ojt-tracker/internal/logger"
	"github.com/localnerve/ojt-tracker/internal/models"
	"gorm.io/gorm"
)

// ReconcileResult counts the work done by one reconciliation pass
type ReconcileResult struct {
	PendingFinished int `json:"pending_finished"`
	PendingFailed   int `json:"pending_failed"`
	OrphansRemoved  int `json:"orphans_removed"`
}

// ReconcileDocuments brings stored files and document rows back in line.
// Pending deletes are retried, and files no row references are removed once
// they are older than grace so in-flight uploads are left alone.
func ReconcileDocuments(ctx context.Context, db *gorm.DB, store FileStore, grace time.Duration, now time.Time) (ReconcileResult, error) {
	var res ReconcileResult
	db = db.WithContext(ctx)

	var pending []models.Document
	if err := db.Where("pending_delete = ?", true).Order("id").Find(&pending).Error; err != nil {
		return res, err
	}
	for i := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		doc := &pending[i]
		if err := store.Remove(doc.FileName); err != nil {
			res.PendingFailed++
			logger.Warn("pending document file still not removable", "document_id", doc.ID, "file", doc.FileName, "error", err)
			continue
		}
		if err := finishDelete(db, doc); err != nil {
			res.PendingFailed++
			logger.Warn("failed to finish pending document delete", "document_id", doc.ID, "error", err)
			continue
		}
		res.PendingFinished++
	}

	entries, err := store.List()
	if err != nil {
		return res, err
	}
	if len(entries) == 0 {
		return res, nil
	}

	var names []string
	if err := db.Model(&models.Document{}).Pluck("file_name", &names).Error; err != nil {
		return res, err
	}
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	cutoff := now.Add(-grace)
	for _, e := range entries {
		if strings.HasPrefix(e.Name, ".") || e.ModTime.After(cutoff) {
			continue
		}
		if _, ok := known[e.Name]; ok {
			continue
		}
		if err := store.Remove(e.Name); err != nil {
			logger.Warn("failed to remove orphan file", "file", e.Name, "error", err)
			continue
		}
		res.OrphansRemoved++
	}

	if res != (ReconcileResult{}) {
		logger.Info("document reconciliation finished",
			"pending_finished", res.PendingFinished,
			"pending_failed", res.PendingFailed,
			"orphans_removed", res.OrphansRemoved)
	}
	return res, nil
}
