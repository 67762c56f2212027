package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/testutil"
)

func TestRoleService_HealerScenario(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRoleService(env.repos, nil)
	ctx := context.Background()

	role, err := svc.Add(ctx, env.admin, RoleInput{Name: "Healer", Description: "Support class"})
	require.NoError(t, err)
	assert.NotZero(t, role.ID)

	_, err = svc.Add(ctx, env.admin, RoleInput{Name: "Healer", Description: "Support class"})
	requireCode(t, err, apperrors.CodeAlreadyExists)
	assert.Equal(t, MsgRoleDuplicate, err.Error())

	roles, err := svc.List(ctx, env.admin)
	require.NoError(t, err)
	n := 0
	for _, r := range roles {
		if r.Name == "Healer" {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestRoleService_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRoleService(env.repos, nil)

	tests := []struct {
		name  string
		in    RoleInput
		field string
	}{
		{name: "no name", in: RoleInput{Description: "d"}, field: "name"},
		{name: "no description", in: RoleInput{Name: "Tank"}, field: "description"},
		{name: "name too long", in: RoleInput{Name: strings.Repeat("x", 61), Description: "d"}, field: "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), env.admin, tt.in)
			requireCode(t, err, apperrors.CodeInvalidArgument)

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
	assert.Zero(t, env.count(t, &model.Role{}))
}

func TestRoleService_EditDuplicateKeepsOriginal(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRoleService(env.repos, nil)
	ctx := context.Background()

	_, err := svc.Add(ctx, env.admin, RoleInput{Name: "Healer", Description: "Support class"})
	require.NoError(t, err)
	tank, err := svc.Add(ctx, env.admin, RoleInput{Name: "Tank", Description: "Front line"})
	require.NoError(t, err)

	_, err = svc.Edit(ctx, env.admin, tank.ID, RoleInput{Name: "Healer", Description: "Front line"})
	requireCode(t, err, apperrors.CodeAlreadyExists)

	got, err := svc.Get(ctx, env.admin, tank.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tank", got.Name)
}

func TestRoleService_DeleteRemovesAssignments(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRoleService(env.repos, nil)
	ctx := context.Background()
	role := testutil.CreateRole(t, env.db, "Scout")
	require.NoError(t, env.db.Create(&model.UserRole{UserID: env.player.ID, RoleID: role.ID}).Error)

	require.NoError(t, svc.Delete(ctx, env.admin, role.ID))
	assert.Zero(t, env.count(t, &model.Role{}))
	assert.Zero(t, env.count(t, &model.UserRole{}))
	assert.Equal(t, int64(2), env.count(t, &model.User{}))

	requireCode(t, svc.Delete(ctx, env.admin, role.ID), apperrors.CodeNotFound)
}

func TestRoleService_NonAdminIsDenied(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRoleService(env.repos, nil)
	ctx := context.Background()
	role := testutil.CreateRole(t, env.db, "Scout")

	_, err := svc.List(ctx, env.player)
	requireCode(t, err, apperrors.CodePermissionDenied)
	_, err = svc.Add(ctx, env.player, RoleInput{Name: "Rogue", Description: "d"})
	requireCode(t, err, apperrors.CodePermissionDenied)
	_, err = svc.Edit(ctx, env.player, role.ID, RoleInput{Name: "Rogue", Description: "d"})
	requireCode(t, err, apperrors.CodePermissionDenied)
	requireCode(t, svc.Delete(ctx, env.player, role.ID), apperrors.CodePermissionDenied)

	assert.Equal(t, int64(1), env.count(t, &model.Role{}))
}
