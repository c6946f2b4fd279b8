package services_test

import (
	"testing"

	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/testutil"
	"github.com/localnerve/ojt-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestListUsersCountsTasks(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	testutil.CreateUser(t, db, "bob", models.RoleUser)
	testutil.CreateTask(t, db, alice.ID, "a", 0, statusCompleted)
	testutil.CreateTask(t, db, alice.ID, "b", 0, statusPending)

	users, err := services.ListUsers(db)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byName := map[string]services.UserSummary{}
	for _, u := range users {
		byName[u.Username] = u
	}
	assert.Equal(t, int64(2), byName["alice"].TaskCount)
	assert.Equal(t, int64(1), byName["alice"].CompletedCount)
	assert.Equal(t, models.RoleUser, byName["alice"].Role)
	assert.Zero(t, byName["bob"].TaskCount)
}

func TestUpdateUserSelf(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	actor := services.NewSessionUser(alice)

	updated, err := services.UpdateUser(db, actor, services.UserPatch{
		UserID:   types.FlexUint64(alice.ID),
		FullName: ptr("Alice Updated"),
		Role:     ptr(models.RoleAdmin),
		Password: ptr("newpass"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", updated.FullName)
	assert.Equal(t, models.RoleUser, updated.Role, "role changes are ignored for non-admins")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpass")))

	logs := activity(t, db, alice.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionProfileUpdate, logs[0].ActionType)
}

func TestUpdateUserRules(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	asAlice := services.NewSessionUser(alice)
	asAdmin := services.NewSessionUser(admin)

	_, err := services.UpdateUser(db, asAlice, services.UserPatch{UserID: types.FlexUint64(bob.ID), FullName: ptr("x")})
	require.ErrorIs(t, err, services.ErrForbidden)

	_, err = services.UpdateUser(db, asAlice, services.UserPatch{FullName: ptr("x")})
	require.ErrorIs(t, err, services.ErrValidation)

	_, err = services.UpdateUser(db, asAlice, services.UserPatch{UserID: types.FlexUint64(alice.ID)})
	require.ErrorIs(t, err, services.ErrNoFields)

	_, err = services.UpdateUser(db, asAlice, services.UserPatch{UserID: types.FlexUint64(alice.ID), Email: ptr("bob@example.com")})
	require.ErrorIs(t, err, services.ErrConflict)

	_, err = services.UpdateUser(db, asAlice, services.UserPatch{UserID: types.FlexUint64(alice.ID), Email: ptr("alice@example.com")})
	require.NoError(t, err, "keeping your own email is not a conflict")

	_, err = services.UpdateUser(db, asAlice, services.UserPatch{UserID: types.FlexUint64(alice.ID), Password: ptr("123")})
	require.ErrorIs(t, err, services.ErrValidation)

	_, err = services.UpdateUser(db, asAdmin, services.UserPatch{UserID: 9999, FullName: ptr("x")})
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestAdminUpdatesRoleAndDeactivates(t *testing.T) {
	db := newDB(t)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	require.NoError(t, db.Model(bob).Update("remember_token", "abc").Error)

	updated, err := services.UpdateUser(db, services.NewSessionUser(admin), services.UserPatch{
		UserID:   types.FlexUint64(bob.ID),
		UserType: ptr(models.RoleAdmin),
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.RememberToken)

	assert.Len(t, activity(t, db, admin.ID), 1)
	assert.Empty(t, activity(t, db, bob.ID))

	_, err = services.UpdateUser(db, services.NewSessionUser(admin), services.UserPatch{
		UserID: types.FlexUint64(bob.ID),
		Role:   ptr("superuser"),
	})
	require.ErrorIs(t, err, services.ErrValidation)
}

func TestDeleteUser(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	testutil.CreateTask(t, db, alice.ID, "a", 0, statusPending)
	asAdmin := services.NewSessionUser(admin)

	err := services.DeleteUser(db, services.NewSessionUser(alice), admin.ID)
	require.ErrorIs(t, err, services.ErrForbidden)

	err = services.DeleteUser(db, asAdmin, admin.ID)
	require.ErrorIs(t, err, services.ErrValidation)
	assert.Equal(t, "You cannot delete your own account", err.Error())

	err = services.DeleteUser(db, asAdmin, 9999)
	require.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, services.DeleteUser(db, asAdmin, alice.ID))

	var tasks int64
	require.NoError(t, db.Model(&models.Task{}).Where("user_id = ?", alice.ID).Count(&tasks).Error)
	assert.Zero(t, tasks)

	logs := activity(t, db, admin.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionUserDeleted, logs[0].ActionType)
}
