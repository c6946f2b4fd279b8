package database_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/localnerve/ojt-tracker/internal/database"
	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestDialectorUnsupported(t *testing.T) {
	_, err := database.Dialector(&config.Config{DBType: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestMySQLDSN(t *testing.T) {
	dsn := database.MySQLDSN(&config.Config{
		DBHost:     "db",
		DBPort:     "3306",
		DBName:     "ojt",
		DBUser:     "ojt",
		DBPassword: "p@ss/word",
	})
	assert.True(t, strings.HasPrefix(dsn, "ojt:p@ss/word@tcp(db:3306)/ojt?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config(t))
	require.NoError(t, database.Seed(db))

	var statuses []models.TaskStatus
	require.NoError(t, db.Order("id").Find(&statuses).Error)
	require.Len(t, statuses, 3)
	assert.Equal(t, "Pending", statuses[0].Name)
	assert.Equal(t, uint64(1), statuses[0].ID)
	assert.Equal(t, "Completed", statuses[2].Name)
	assert.Equal(t, uint64(3), statuses[2].ID)

	var priorities []models.Priority
	require.NoError(t, db.Order("id").Find(&priorities).Error)
	require.Len(t, priorities, 3)
	assert.Equal(t, "Medium", priorities[1].Level)

	var categories int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.Equal(t, int64(6), categories)
}

func TestEnsureAdmin(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config(t))

	created, err := database.EnsureAdmin(db, "admin", "admin@ojt.local", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = database.EnsureAdmin(db, "admin", "admin@ojt.local", "changeme")
	require.NoError(t, err)
	assert.False(t, created)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("changeme")))
}

func TestUserDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config(t))
	user := testutil.CreateUser(t, db, "cascade", models.RoleUser)
	task := testutil.CreateTask(t, db, user.ID, "Orientation", 1, 1)
	require.NoError(t, db.Create(&models.ActivityLog{UserID: user.ID, TaskID: &task.ID, ActionType: models.ActionTaskCreated}).Error)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	var tasks, logs int64
	db.Model(&models.Task{}).Where("user_id = ?", user.ID).Count(&tasks)
	db.Model(&models.ActivityLog{}).Where("user_id = ?", user.ID).Count(&logs)
	assert.Zero(t, tasks)
	assert.Zero(t, logs)
}

func TestMariaDBIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testutil.StartDatabase(ctx, "mariadb", "")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	defer func() { _ = container.Terminate(context.Background()) }()

	cfg := testutil.Config(t)
	container.Apply(cfg)

	conn, err := connectWithRetry(cfg, 10)
	require.NoError(t, err)
	defer database.Close(conn)

	require.NoError(t, database.AutoMigrate(conn))
	require.NoError(t, database.Seed(conn))

	user := testutil.CreateUser(t, conn, "maria", models.RoleUser)
	testutil.CreateTask(t, conn, user.ID, "Server setup", 1, 3)

	var count int64
	require.NoError(t, conn.Model(&models.Task{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// connectWithRetry waits out the window where the port listens before the user grants exist
func connectWithRetry(cfg *config.Config, attempts int) (*gorm.DB, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		db, err := database.Connect(cfg)
		if err == nil {
			sqlDB, _ := db.DB()
			if lastErr = sqlDB.Ping(); lastErr == nil {
				return db, nil
			}
			_ = database.Close(db)
		} else {
			lastErr = err
		}
		time.Sleep(2 * time.Second)
	}
	return nil, lastErr
}
