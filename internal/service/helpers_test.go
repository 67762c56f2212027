package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
	"github.com/Leganyst/campaign-platform/internal/testutil"
)

type testEnv struct {
	db     *gorm.DB
	repos  *repository.Repositories
	admin  *model.User
	player *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	return &testEnv{
		db:     db,
		repos:  repository.New(db),
		admin:  testutil.CreateUser(t, db, "gm", true),
		player: testutil.CreateUser(t, db, "player", false),
	}
}

func (e *testEnv) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

func requireCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperrors.CodeOf(err), "unexpected error: %v", err)
}
