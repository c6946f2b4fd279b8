package services_test

import (
	"testing"

	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Seeded lookup ids, in seed file order
const (
	catDevelopment   uint64 = 1
	catDocumentation uint64 = 2
	catMeetings      uint64 = 3

	priHigh   uint64 = 1
	priMedium uint64 = 2
	priLow    uint64 = 3

	statusPending    uint64 = 1
	statusInProgress uint64 = 2
	statusCompleted  uint64 = 3
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewDB(t, testutil.Config(t))
}

func date(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func activity(t *testing.T, db *gorm.DB, userID uint64) []models.ActivityLog {
	t.Helper()
	var logs []models.ActivityLog
	require.NoError(t, db.Where("user_id = ?", userID).Order("id").Find(&logs).Error)
	return logs
}

func ptr[T any](v T) *T {
	return &v
}
