package client_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/server"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/storage"
	"github.com/localnerve/ojt-tracker/internal/testutil"
	"github.com/localnerve/ojt-tracker/internal/types"
	"github.com/localnerve/ojt-tracker/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// gate lets a test hold requests or fail an endpoint in front of the real app
type gate struct {
	next         http.Handler
	holdPost     atomic.Bool
	arrived      chan struct{}
	release      chan struct{} // closed to let held POST /api/tasks requests through
	failProgress atomic.Bool
}

func (g *gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/progress" && g.failProgress.Load() {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	if g.holdPost.Load() && r.Method == http.MethodPost && r.URL.Path == "/api/tasks" {
		g.arrived <- struct{}{}
		<-g.release
	}
	g.next.ServeHTTP(w, r)
}

type fixture struct {
	db   *gorm.DB
	gate *gate
	url  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testutil.Config(t)
	db := testutil.NewDB(t, cfg)
	app := server.New(cfg, db, storage.NewLocal(cfg.UploadDir), io.Discard)

	g := &gate{
		next:    adaptor.FiberApp(app),
		arrived: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	ts := httptest.NewServer(g)
	t.Cleanup(ts.Close)

	return &fixture{db: db, gate: g, url: ts.URL}
}

func (f *fixture) client(t *testing.T, username string) *client.Client {
	t.Helper()
	c, err := client.New(f.url, client.WithRequiredHours(100))
	require.NoError(t, err)
	_, err = c.Login(context.Background(), username, testutil.Password, false)
	require.NoError(t, err)
	return c
}

func TestLoginAndCheckAuth(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	ctx := context.Background()

	c, err := client.New(f.url)
	require.NoError(t, err)

	_, err = c.Login(ctx, "alice", "wrong", false)
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.Nil(t, c.User())

	user, err := c.Login(ctx, "alice", testutil.Password, true)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice", c.User().Username)

	checked, err := c.CheckAuth(ctx)
	require.NoError(t, err)
	require.NotNil(t, checked)
	assert.Equal(t, "alice", checked.Username)

	require.NoError(t, c.Logout(ctx))
	assert.Nil(t, c.User())
	checked, err = c.CheckAuth(ctx)
	require.NoError(t, err)
	assert.Nil(t, checked)
}

func TestTaskMutationsRefetchList(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	c := f.client(t, "alice")
	ctx := context.Background()

	id, err := c.CreateTask(ctx, services.TaskInput{Title: "Draft report", CategoryID: 2, HoursRendered: 3})
	require.NoError(t, err)
	require.Len(t, c.Tasks(), 1)
	assert.Equal(t, "Draft report", c.Tasks()[0].Title)
	assert.Equal(t, "Pending", c.Tasks()[0].StatusName)

	done := types.FlexUint64(3)
	require.NoError(t, c.UpdateTask(ctx, id, services.TaskPatch{StatusID: &done}))
	assert.Equal(t, "Completed", c.Tasks()[0].StatusName)

	_, err = c.CreateTask(ctx, services.TaskInput{Title: "Second"})
	require.NoError(t, err)
	assert.Len(t, c.Tasks(), 2)

	require.NoError(t, c.DeleteTask(ctx, id))
	require.Len(t, c.Tasks(), 1)
	assert.Equal(t, "Second", c.Tasks()[0].Title)

	err = c.DeleteTask(ctx, id)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))

	// Local activity mirrors the mutations, newest first
	me := c.User()
	require.NotNil(t, me)
	activity := c.Activity(me.ID)
	require.Len(t, activity, 4)
	assert.Equal(t, "task_deleted", activity[0].ActionType)
	assert.Equal(t, "task_created", activity[3].ActionType)
}

func TestConcurrentSubmitIsRejected(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	c := f.client(t, "alice")
	ctx := context.Background()

	f.gate.holdPost.Store(true)

	errc := make(chan error, 1)
	go func() {
		_, err := c.CreateTask(ctx, services.TaskInput{Title: "First click"})
		errc <- err
	}()

	select {
	case <-f.gate.arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the server")
	}

	_, err := c.CreateTask(ctx, services.TaskInput{Title: "Second click"})
	assert.ErrorIs(t, err, client.ErrSubmitting)

	close(f.gate.release)
	require.NoError(t, <-errc)

	require.Len(t, c.Tasks(), 1)
	assert.Equal(t, "First click", c.Tasks()[0].Title)
}

func TestProgressFallsBackToCachedTasks(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	testutil.CreateTask(t, f.db, alice.ID, "Done", 1, 3)
	testutil.CreateTask(t, f.db, alice.ID, "Doing", 1, 2)
	testutil.CreateTask(t, f.db, alice.ID, "Todo", 2, 1)
	c := f.client(t, "alice")
	ctx := context.Background()

	_, err := c.RefreshTasks(ctx)
	require.NoError(t, err)

	remote, err := c.Progress(ctx)
	require.NoError(t, err)
	assert.False(t, remote.Local)

	f.gate.failProgress.Store(true)
	local, err := c.Progress(ctx)
	require.NoError(t, err)
	assert.True(t, local.Local)

	// Both paths agree
	assert.Equal(t, remote.Overall, local.Overall)
	require.Len(t, local.ByCategory, len(remote.ByCategory))
	for i := range remote.ByCategory {
		assert.Equal(t, remote.ByCategory[i].Name, local.ByCategory[i].Name)
		assert.Equal(t, remote.ByCategory[i].Counts, local.ByCategory[i].Counts)
	}
	assert.InDelta(t, 33.33, local.Overall.CompletionPercentage, 0.001)
	require.NotNil(t, local.NextMilestone)
	assert.Equal(t, 50, local.NextMilestone.Percent)
}

func TestProgressRequiresSession(t *testing.T) {
	f := newFixture(t)
	c, err := client.New(f.url)
	require.NoError(t, err)

	_, err = c.Progress(context.Background())
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
}

func TestActivityQueueAndFlush(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	c := f.client(t, "alice")
	ctx := context.Background()

	require.NoError(t, c.LogActivity(ctx, services.ActivityEntry{ActionType: "note", Description: "online"}))

	// A cancelled context stands in for a dropped connection
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := c.LogActivity(cancelled, services.ActivityEntry{ActionType: "note", Description: "offline 1"})
	require.Error(t, err)
	_ = c.LogActivity(cancelled, services.ActivityEntry{ActionType: "note", Description: "offline 2"})
	assert.Equal(t, 2, c.PendingActivity())

	cached := c.Activity(alice.ID)
	require.Len(t, cached, 3)
	assert.Equal(t, "offline 2", cached[0].Description)

	require.NoError(t, c.FlushActivity(ctx))
	assert.Zero(t, c.PendingActivity())

	views, err := c.RefreshActivity(ctx, 0)
	require.NoError(t, err)
	var notes []string
	for _, v := range views {
		if v.ActionType == "note" {
			notes = append(notes, v.Description)
		}
	}
	assert.ElementsMatch(t, []string{"online", "offline 1", "offline 2"}, notes)
}

func TestActivityCacheIsCapped(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	c := f.client(t, "alice")
	ctx := context.Background()

	entries := make([]services.ActivityEntry, client.ActivityCacheSize+5)
	for i := range entries {
		entries[i] = services.ActivityEntry{ActionType: "note", Description: "entry"}
	}
	for _, e := range entries {
		require.NoError(t, c.LogActivity(ctx, e))
	}
	assert.Len(t, c.Activity(alice.ID), client.ActivityCacheSize)

	views, err := c.RefreshActivity(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, views, client.ActivityCacheSize)
}

func TestAdminUsers(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "root", models.RoleAdmin)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	ctx := context.Background()

	user := f.client(t, "alice")
	_, err := user.RefreshUsers(ctx)
	assert.True(t, client.IsStatus(err, http.StatusForbidden))

	admin := f.client(t, "root")
	users, err := admin.RefreshUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	name := "Alice L."
	updated, err := admin.UpdateUser(ctx, services.UserPatch{UserID: types.FlexUint64(alice.ID), FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)

	require.NoError(t, admin.DeleteUser(ctx, alice.ID))
	assert.Len(t, admin.Users(), 1)
}

func TestExportTasks(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	testutil.CreateTask(t, f.db, alice.ID, "Logged", 1, 3)
	c := f.client(t, "alice")

	var buf bytes.Buffer
	require.NoError(t, c.ExportTasks(context.Background(), &buf))
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestSubmitHonoursCancelledContext(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "alice", models.RoleUser)
	c := f.client(t, "alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.CreateTask(ctx, services.TaskInput{Title: "never"})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, c.Tasks())
}
