package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/testutil"
)

func TestTicketService_Flow(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTicketService(env.repos, nil)
	ctx := context.Background()
	clock := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	_, err := svc.CreateBucket(ctx, env.player, "Rules")
	requireCode(t, err, apperrors.CodePermissionDenied)
	bucket, err := svc.CreateBucket(ctx, env.admin, "Rules")
	require.NoError(t, err)

	ticket, err := svc.OpenTicket(ctx, env.player, bucket.ID, "Can I dual wield?")
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusOpen, ticket.Status)

	_, err = svc.OpenTicket(ctx, env.player, 999, "Lost")
	requireCode(t, err, apperrors.CodeInvalidArgument)

	clock = clock.Add(time.Hour)
	_, err = svc.CommentTicket(ctx, env.player, ticket.ID, "Asking for a friend")
	require.NoError(t, err)

	stranger := testutil.CreateUser(t, env.db, "stranger", false)
	_, err = svc.CommentTicket(ctx, stranger, ticket.ID, "me too")
	requireCode(t, err, apperrors.CodePermissionDenied)
	_, err = svc.Get(ctx, stranger, ticket.ID)
	requireCode(t, err, apperrors.CodePermissionDenied)

	require.NoError(t, svc.GrantTicketAccess(ctx, env.admin, ticket.ID, stranger.ID, true, false))
	_, err = svc.Get(ctx, stranger, ticket.ID)
	require.NoError(t, err)
	_, err = svc.CommentTicket(ctx, stranger, ticket.ID, "still me")
	requireCode(t, err, apperrors.CodePermissionDenied)

	require.NoError(t, svc.AssignTicket(ctx, env.admin, ticket.ID, &env.admin.ID))
	require.NoError(t, svc.SetTicketStatus(ctx, env.admin, ticket.ID, model.TicketStatusInProgress))
	requireCode(t, svc.SetTicketStatus(ctx, env.admin, ticket.ID, model.TicketStatus(9)), apperrors.CodeInvalidArgument)
	requireCode(t, svc.SetTicketStatus(ctx, env.player, ticket.ID, model.TicketStatusClosed), apperrors.CodePermissionDenied)

	clock = clock.Add(time.Hour)
	_, err = svc.CommentTicket(ctx, env.admin, ticket.ID, "Yes, with the feat")
	require.NoError(t, err)

	got, err := svc.Get(ctx, env.player, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusInProgress, got.Status)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, env.admin.ID, *got.AssigneeID)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "Yes, with the feat", got.Comments[1].Comment)
	assert.True(t, clock.Equal(got.LastModified))

	require.NoError(t, svc.AssignTicket(ctx, env.admin, ticket.ID, nil))
	got, err = svc.Get(ctx, env.admin, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssigneeID)

	requireCode(t, svc.SetTicketStatus(ctx, env.admin, 999, model.TicketStatusClosed), apperrors.CodeNotFound)
}

func TestTicketService_Visibility(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTicketService(env.repos, nil)
	ctx := context.Background()
	other := testutil.CreateUser(t, env.db, "other", false)

	bucket, err := svc.CreateBucket(ctx, env.admin, "Plot")
	require.NoError(t, err)
	mine, err := svc.OpenTicket(ctx, env.player, bucket.ID, "Mine")
	require.NoError(t, err)
	_, err = svc.OpenTicket(ctx, other, bucket.ID, "Theirs")
	require.NoError(t, err)

	visible, err := svc.TicketsVisibleTo(ctx, env.player)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].ID)

	all, err := svc.TicketsVisibleTo(ctx, env.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.TicketsVisibleTo(ctx, nil)
	requireCode(t, err, apperrors.CodeUnauthenticated)
}

func TestTicketService_CommentAccessLookupFailure(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTicketService(env.repos, nil)
	ctx := context.Background()

	bucket, err := svc.CreateBucket(ctx, env.admin, "Rules")
	require.NoError(t, err)
	ticket, err := svc.OpenTicket(ctx, env.player, bucket.ID, "Can I dual wield?")
	require.NoError(t, err)

	// Break only the per-user access lookup; the ticket itself still loads.
	broken := errors.New("disk I/O error")
	require.NoError(t, env.db.Callback().Query().After("gorm:query").Register("test:fail_access_lookup", func(tx *gorm.DB) {
		sql := tx.Statement.SQL.String()
		if strings.Contains(sql, "ticket_access_lists") && strings.Contains(sql, "user_id = ?") {
			_ = tx.AddError(broken)
		}
	}))

	_, err = svc.CommentTicket(ctx, env.player, ticket.ID, "Asking for a friend")
	requireCode(t, err, apperrors.CodeInternal)
	assert.ErrorIs(t, err, broken)
	assert.Zero(t, env.count(t, &model.TicketComment{}))
}
