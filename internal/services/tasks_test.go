package services_test

import (
	"encoding/json"
	"testing"

	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/testutil"
	"github.com/localnerve/ojt-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskDefaultsToPending(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)

	id, err := services.CreateTask(db, services.TaskInput{
		UserID:     types.FlexUint64(alice.ID),
		Title:      "  Write report  ",
		CategoryID: types.FlexUint64(catDocumentation),
	})
	require.NoError(t, err)

	task, err := services.GetTask(db, id)
	require.NoError(t, err)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, models.StatusPending, task.StatusName)
	assert.Equal(t, "Documentation", task.CategoryName)
	assert.Nil(t, task.DueDate)

	logs := activity(t, db, alice.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionTaskCreated, logs[0].ActionType)
	require.NotNil(t, logs[0].TaskID)
	assert.Equal(t, id, *logs[0].TaskID)
}

func TestCreateTaskRequiresUserAndTitle(t *testing.T) {
	db := newDB(t)

	_, err := services.CreateTask(db, services.TaskInput{UserID: 1, Title: "   "})
	require.ErrorIs(t, err, services.ErrValidation)
	assert.Equal(t, "User ID and Title are required", err.Error())

	_, err = services.CreateTask(db, services.TaskInput{Title: "x"})
	require.ErrorIs(t, err, services.ErrValidation)
}

func TestCreateTaskRollsBackOnBadReference(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)

	_, err := services.CreateTask(db, services.TaskInput{
		UserID:     types.FlexUint64(alice.ID),
		Title:      "Broken",
		CategoryID: 999,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrValidation)

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, activity(t, db, alice.ID))
}

func TestListTasksOrdersByDueDateThenPriority(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)

	inputs := []services.TaskInput{
		{Title: "undated", PriorityID: types.FlexUint64(priHigh)},
		{Title: "second", DueDate: date(t, "2025-03-02"), PriorityID: types.FlexUint64(priHigh)},
		{Title: "first-low", DueDate: date(t, "2025-03-01"), PriorityID: types.FlexUint64(priLow)},
		{Title: "first-high", DueDate: date(t, "2025-03-01"), PriorityID: types.FlexUint64(priHigh)},
	}
	for _, in := range inputs {
		in.UserID = types.FlexUint64(alice.ID)
		_, err := services.CreateTask(db, in)
		require.NoError(t, err)
	}
	testutil.CreateTask(t, db, bob.ID, "not mine", 0, statusPending)

	tasks, err := services.ListTasks(db, services.TaskFilter{UserID: alice.ID})
	require.NoError(t, err)

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}
	assert.Equal(t, []string{"first-high", "first-low", "second", "undated"}, titles)
	assert.Equal(t, "High", tasks[0].PriorityName)
}

func TestListTasksFilters(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	testutil.CreateTask(t, db, alice.ID, "a", catDevelopment, statusCompleted)
	testutil.CreateTask(t, db, alice.ID, "b", catDevelopment, statusPending)
	testutil.CreateTask(t, db, alice.ID, "c", catMeetings, statusCompleted)

	done, err := services.ListTasks(db, services.TaskFilter{UserID: alice.ID, Status: models.StatusCompleted})
	require.NoError(t, err)
	assert.Len(t, done, 2)

	dev, err := services.ListTasks(db, services.TaskFilter{UserID: alice.ID, Status: models.StatusCompleted, CategoryID: catDevelopment})
	require.NoError(t, err)
	require.Len(t, dev, 1)
	assert.Equal(t, "a", dev[0].Title)

	none, err := services.ListTasks(db, services.TaskFilter{UserID: 12345})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetTaskNotFound(t *testing.T) {
	db := newDB(t)
	_, err := services.GetTask(db, 42)
	require.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, "Task not found", err.Error())
}

func TestUpdateTask(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	task := testutil.CreateTask(t, db, alice.ID, "Draft", catDevelopment, statusPending)

	var patch services.TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"status_id":"3","hours_rendered":4.5,"category_id":"","due_date":"2025-04-01"}`), &patch))
	require.NoError(t, services.UpdateTask(db, task.ID, alice.ID, patch))

	got, err := services.GetTask(db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.StatusName)
	assert.Equal(t, 4.5, got.HoursRendered)
	assert.Nil(t, got.CategoryID)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-04-01", got.DueDate.String())
	assert.Equal(t, "Draft", got.Title)

	logs := activity(t, db, alice.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionTaskUpdated, logs[0].ActionType)
	assert.JSONEq(t, `{"fields":["category_id","due_date","hours_rendered","status_id"]}`, string(logs[0].Metadata.JSON))
}

func TestUpdateTaskEmptyPatch(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	task := testutil.CreateTask(t, db, alice.ID, "Draft", 0, statusPending)
	var before models.Task
	require.NoError(t, db.First(&before, task.ID).Error)

	err := services.UpdateTask(db, task.ID, alice.ID, services.TaskPatch{})
	require.ErrorIs(t, err, services.ErrNoFields)
	require.ErrorIs(t, err, services.ErrValidation)
	assert.Empty(t, activity(t, db, alice.ID))

	var after models.Task
	require.NoError(t, db.First(&after, task.ID).Error)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt), "updated_at must not move on an empty patch")

	// an empty patch is rejected before the row is looked up
	err = services.UpdateTask(db, 999, alice.ID, services.TaskPatch{})
	require.ErrorIs(t, err, services.ErrNoFields)
}

func TestUpdateTaskRejectsBlankTitle(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	task := testutil.CreateTask(t, db, alice.ID, "Draft", 0, statusPending)

	err := services.UpdateTask(db, task.ID, alice.ID, services.TaskPatch{Title: ptr(" ")})
	require.ErrorIs(t, err, services.ErrValidation)

	err = services.UpdateTask(db, 999, alice.ID, services.TaskPatch{Title: ptr("x")})
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeleteTaskKeepsActivity(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	task := testutil.CreateTask(t, db, alice.ID, "Gone soon", 0, statusPending)

	require.NoError(t, services.DeleteTask(db, task.ID, admin.ID))

	_, err := services.GetTask(db, task.ID)
	require.ErrorIs(t, err, services.ErrNotFound)

	logs := activity(t, db, alice.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionTaskDeleted, logs[0].ActionType)
	assert.JSONEq(t, `{"deleted_by":`+jsonUint(admin.ID)+`}`, string(logs[0].Metadata.JSON))

	views, err := services.ListActivity(db, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].TaskTitle)
	assert.Equal(t, "alice", views[0].Username)

	err = services.DeleteTask(db, task.ID, admin.ID)
	require.ErrorIs(t, err, services.ErrNotFound)
	assert.Len(t, activity(t, db, alice.ID), 1)
}

func TestTaskOwner(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	task := testutil.CreateTask(t, db, alice.ID, "Mine", 0, statusPending)

	owner, err := services.TaskOwner(db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, owner)

	_, err = services.TaskOwner(db, task.ID+1)
	require.ErrorIs(t, err, services.ErrNotFound)
}

func jsonUint(v uint64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
