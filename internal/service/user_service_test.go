package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/testutil"
)

func TestUserService_List(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos, nil)

	users, err := svc.List(context.Background(), env.admin)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "gm", users[0].Username)

	_, err = svc.List(context.Background(), env.player)
	requireCode(t, err, apperrors.CodePermissionDenied)
}

func TestUserService_AssignmentOptionsAreFresh(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos, nil)
	ctx := context.Background()
	testutil.CreateCharacter(t, env.db, "One", env.admin.ID)
	testutil.CreateRole(t, env.db, "Healer")

	opts, err := svc.AssignmentOptions(ctx, env.admin, env.player.ID)
	require.NoError(t, err)
	assert.Equal(t, env.player.ID, opts.User.ID)
	assert.Len(t, opts.Characters, 1)
	assert.Len(t, opts.Roles, 1)

	testutil.CreateCharacter(t, env.db, "Two", env.admin.ID)
	testutil.CreateRole(t, env.db, "Tank")

	opts, err = svc.AssignmentOptions(ctx, env.admin, env.player.ID)
	require.NoError(t, err)
	assert.Len(t, opts.Characters, 2)
	assert.Len(t, opts.Roles, 2)
}

func TestUserService_AssignReplacesRoles(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos, nil)
	ctx := context.Background()

	c := testutil.CreateCharacter(t, env.db, "Aria", env.admin.ID)
	healer := testutil.CreateRole(t, env.db, "Healer")
	tank := testutil.CreateRole(t, env.db, "Tank")
	require.NoError(t, env.db.Create(&model.UserRole{UserID: env.player.ID, RoleID: healer.ID}).Error)

	require.NoError(t, svc.Assign(ctx, env.admin, env.player.ID, AssignInput{CharacterID: c.ID, RoleID: tank.ID}))

	var got model.Character
	require.NoError(t, env.db.First(&got, c.ID).Error)
	assert.Equal(t, env.player.ID, got.UserID)

	roles, err := env.repos.Roles.RolesOfUser(ctx, env.player.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Tank", roles[0].Name)

	// Repeating the assignment changes nothing.
	require.NoError(t, svc.Assign(ctx, env.admin, env.player.ID, AssignInput{CharacterID: c.ID, RoleID: tank.ID}))
	assert.Equal(t, int64(1), env.count(t, &model.UserRole{}))
}

func TestUserService_AssignToAdminIsDenied(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos, nil)
	ctx := context.Background()
	otherAdmin := testutil.CreateUser(t, env.db, "gm2", true)
	c := testutil.CreateCharacter(t, env.db, "Aria", env.admin.ID)
	role := testutil.CreateRole(t, env.db, "Healer")

	_, err := svc.AssignmentOptions(ctx, env.admin, otherAdmin.ID)
	requireCode(t, err, apperrors.CodePermissionDenied)

	err = svc.Assign(ctx, env.admin, otherAdmin.ID, AssignInput{CharacterID: c.ID, RoleID: role.ID})
	requireCode(t, err, apperrors.CodePermissionDenied)

	var got model.Character
	require.NoError(t, env.db.First(&got, c.ID).Error)
	assert.Equal(t, env.admin.ID, got.UserID)
	assert.Zero(t, env.count(t, &model.UserRole{}))
}

func TestUserService_AssignErrors(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos, nil)
	ctx := context.Background()
	c := testutil.CreateCharacter(t, env.db, "Aria", env.admin.ID)
	role := testutil.CreateRole(t, env.db, "Healer")

	err := svc.Assign(ctx, env.admin, 999, AssignInput{CharacterID: c.ID, RoleID: role.ID})
	requireCode(t, err, apperrors.CodeNotFound)

	err = svc.Assign(ctx, env.admin, env.player.ID, AssignInput{CharacterID: 999, RoleID: role.ID})
	requireCode(t, err, apperrors.CodeInvalidArgument)

	err = svc.Assign(ctx, env.admin, env.player.ID, AssignInput{CharacterID: c.ID})
	requireCode(t, err, apperrors.CodeInvalidArgument)

	err = svc.Assign(ctx, env.player, env.player.ID, AssignInput{CharacterID: c.ID, RoleID: role.ID})
	requireCode(t, err, apperrors.CodePermissionDenied)

	var got model.Character
	require.NoError(t, env.db.First(&got, c.ID).Error)
	assert.Equal(t, env.admin.ID, got.UserID)
}

func TestUserService_DeleteUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos, nil)
	ctx := context.Background()
	c := testutil.CreateCharacter(t, env.db, "Aria", env.player.ID)
	role := testutil.CreateRole(t, env.db, "Healer")
	require.NoError(t, env.db.Create(&model.UserRole{UserID: env.player.ID, RoleID: role.ID}).Error)

	requireCode(t, svc.DeleteUser(ctx, env.admin, env.admin.ID), apperrors.CodeFailedPrecondition)
	requireCode(t, svc.DeleteUser(ctx, env.admin, env.player.ID), apperrors.CodeFailedPrecondition)
	requireCode(t, svc.DeleteUser(ctx, env.admin, 999), apperrors.CodeNotFound)
	assert.Equal(t, int64(2), env.count(t, &model.User{}))

	require.NoError(t, NewCharacterService(env.repos, nil).Delete(ctx, env.admin, c.ID))
	require.NoError(t, svc.DeleteUser(ctx, env.admin, env.player.ID))

	assert.Equal(t, int64(1), env.count(t, &model.User{}))
	assert.Zero(t, env.count(t, &model.UserRole{}))
	assert.Equal(t, int64(1), env.count(t, &model.Role{}))
}

func TestUserService_SetAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repos, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetAdmin(ctx, env.admin, env.player.ID, true))
	u, err := env.repos.Users.GetByID(ctx, env.player.ID)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	require.NoError(t, svc.SetAdmin(ctx, env.admin, env.player.ID, false))
	u, err = env.repos.Users.GetByID(ctx, env.player.ID)
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)

	requireCode(t, svc.SetAdmin(ctx, env.admin, env.admin.ID, false), apperrors.CodeFailedPrecondition)
	requireCode(t, svc.SetAdmin(ctx, env.player, env.player.ID, true), apperrors.CodePermissionDenied)
}
