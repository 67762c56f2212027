package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/testutil"
)

func TestAwardService_GrantAndTotals(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAwardService(env.repos, nil)
	ctx := context.Background()

	xp, err := svc.AddType(ctx, env.admin, "XP")
	require.NoError(t, err)
	gp, err := svc.AddType(ctx, env.admin, "GP")
	require.NoError(t, err)
	_, err = svc.AddType(ctx, env.admin, "XP")
	requireCode(t, err, apperrors.CodeAlreadyExists)

	c := testutil.CreateCharacter(t, env.db, "Aria", env.player.ID)
	day := time.Date(2025, 6, 7, 18, 30, 0, 0, time.UTC)

	_, err = svc.GrantAward(ctx, env.admin, GrantInput{UserID: env.player.ID, AwardTypeID: xp.ID, Amount: 3, Reason: "attended", Date: day})
	require.NoError(t, err)
	_, err = svc.GrantAward(ctx, env.admin, GrantInput{UserID: env.player.ID, CharacterID: &c.ID, AwardTypeID: xp.ID, Amount: 2})
	require.NoError(t, err)
	_, err = svc.GrantAward(ctx, env.admin, GrantInput{UserID: env.player.ID, AwardTypeID: gp.ID, Amount: 10})
	require.NoError(t, err)

	totals, err := svc.AwardTotals(ctx, env.admin, env.player.ID)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "XP", totals[0].Name)
	assert.Equal(t, 5, totals[0].Total)
	assert.Equal(t, "GP", totals[1].Name)
	assert.Equal(t, 10, totals[1].Total)

	history, err := svc.History(ctx, env.admin, env.player.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestAwardService_GrantRejectsForeignCharacter(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAwardService(env.repos, nil)
	ctx := context.Background()

	xp, err := svc.AddType(ctx, env.admin, "XP")
	require.NoError(t, err)
	foreign := testutil.CreateCharacter(t, env.db, "NPC", env.admin.ID)

	_, err = svc.GrantAward(ctx, env.admin, GrantInput{UserID: env.player.ID, CharacterID: &foreign.ID, AwardTypeID: xp.ID, Amount: 1})
	requireCode(t, err, apperrors.CodeInvalidArgument)

	_, err = svc.GrantAward(ctx, env.admin, GrantInput{UserID: env.player.ID, AwardTypeID: xp.ID})
	requireCode(t, err, apperrors.CodeInvalidArgument)

	_, err = svc.GrantAward(ctx, env.admin, GrantInput{UserID: 999, AwardTypeID: xp.ID, Amount: 1})
	requireCode(t, err, apperrors.CodeInvalidArgument)

	_, err = svc.GrantAward(ctx, env.player, GrantInput{UserID: env.player.ID, AwardTypeID: xp.ID, Amount: 100})
	requireCode(t, err, apperrors.CodePermissionDenied)

	totals, err := svc.AwardTotals(ctx, env.admin, env.player.ID)
	require.NoError(t, err)
	assert.Empty(t, totals)
}
