package services

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/localnerve/ojt-tracker/internal/logger"
	"gorm.io/gorm"
)

// WritableChecker reports whether the upload store can accept files
type WritableChecker interface {
	Writable() error
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Storage      string            `json:"storage"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every dependency passed
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

func (r *HealthCheckResult) fail(msg string) {
	r.Status = "unhealthy"
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
}

// HealthCheck pings the database and probes the upload directory
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, store WritableChecker) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.fail(fmt.Sprintf("Database connection error: %v", err))
		logger.Error("health check failed - database connection", "error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.fail(fmt.Sprintf("Database ping failed: %v", err))
		logger.Error("health check failed - database ping", "error", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBName
	}

	if err := store.Writable(); err != nil {
		result.Storage = "unwritable"
		result.Details["storage_error"] = err.Error()
		result.fail(fmt.Sprintf("Upload directory not writable: %v", err))
		logger.Error("health check failed - upload directory", "dir", cfg.UploadDir, "error", err)
	} else {
		result.Storage = "ok"
		result.Details["upload_dir"] = cfg.UploadDir
	}

	if result.Healthy() {
		logger.Debug("health check passed")
	}
	return result
}
