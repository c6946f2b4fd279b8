package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/storage"
	"github.com/localnerve/ojt-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type brokenStore struct{}

func (brokenStore) Writable() error { return errors.New("read-only file system") }

func TestHealthCheck(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.NewDB(t, cfg)

	res := services.HealthCheck(context.Background(), cfg, db, storage.NewLocal(cfg.UploadDir))
	assert.True(t, res.Healthy())
	assert.Equal(t, "ok", res.Database)
	assert.Equal(t, "ok", res.Storage)

	res = services.HealthCheck(context.Background(), cfg, db, brokenStore{})
	assert.False(t, res.Healthy())
	assert.Equal(t, "unwritable", res.Storage)
	assert.Contains(t, res.ErrorMessage, "read-only file system")
}
