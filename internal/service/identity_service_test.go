package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
	"github.com/Leganyst/campaign-platform/internal/testutil"
)

func validRegistration(email, username string) RegisterInput {
	return RegisterInput{
		Email:                  email,
		Username:               username,
		FirstName:              "Ann",
		LastName:               "Lee",
		Phone:                  "555-0100",
		BirthMonth:             "03",
		BirthDay:               3,
		BirthYear:              1990,
		EmergencyContactName:   "Bob Lee",
		EmergencyContactNumber: "555-0199",
		Password:               "correct horse",
		ConfirmPassword:        "correct horse",
	}
}

func TestIdentityService_FirstUserIsAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIdentityService(repository.New(db), nil, time.Hour)
	ctx := context.Background()

	first, err := svc.Register(ctx, validRegistration("First@Example.com ", "first"))
	require.NoError(t, err)
	assert.True(t, first.IsAdmin)
	assert.Equal(t, "first@example.com", first.Email)
	require.NotNil(t, first.JoinDate)

	second, err := svc.Register(ctx, validRegistration("second@example.com", "second"))
	require.NoError(t, err)
	assert.False(t, second.IsAdmin)
}

func TestIdentityService_RegisterValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIdentityService(repository.New(db), nil, time.Hour)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration("taken@example.com", "taken"))
	require.NoError(t, err)

	mismatch := validRegistration("new@example.com", "new")
	mismatch.ConfirmPassword = "something else"
	short := validRegistration("new@example.com", "new")
	short.Password, short.ConfirmPassword = "abc", "abc"
	with := func(edit func(*RegisterInput)) RegisterInput {
		in := validRegistration("new@example.com", "new")
		edit(&in)
		return in
	}

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{name: "bad email", in: validRegistration("not-an-email", "new"), field: "email"},
		{name: "email in use", in: validRegistration("TAKEN@example.com", "new"), field: "email"},
		{name: "username in use", in: validRegistration("new@example.com", "taken"), field: "username"},
		{name: "no username", in: validRegistration("new@example.com", " "), field: "username"},
		{name: "password mismatch", in: mismatch, field: "confirm_password"},
		{name: "short password", in: short, field: "password"},
		{name: "no first name", in: with(func(in *RegisterInput) { in.FirstName = "" }), field: "first_name"},
		{name: "no last name", in: with(func(in *RegisterInput) { in.LastName = " " }), field: "last_name"},
		{name: "no phone", in: with(func(in *RegisterInput) { in.Phone = "" }), field: "phone"},
		{name: "no emergency contact", in: with(func(in *RegisterInput) { in.EmergencyContactName = "" }), field: "emergency_contact_name"},
		{name: "no emergency number", in: with(func(in *RegisterInput) { in.EmergencyContactNumber = "" }), field: "emergency_contact_number"},
		{name: "no birth month", in: with(func(in *RegisterInput) { in.BirthMonth = "" }), field: "birth_month"},
		{name: "unknown birth month", in: with(func(in *RegisterInput) { in.BirthMonth = "Smarch" }), field: "birth_month"},
		{name: "no birth day", in: with(func(in *RegisterInput) { in.BirthDay = 0 }), field: "birth_day"},
		{name: "birth day out of range", in: with(func(in *RegisterInput) { in.BirthDay = 99 }), field: "birth_day"},
		{name: "no birth year", in: with(func(in *RegisterInput) { in.BirthYear = 0 }), field: "birth_year"},
		{name: "birth year too early", in: with(func(in *RegisterInput) { in.BirthYear = 1949 }), field: "birth_year"},
		{name: "birth year in future", in: with(func(in *RegisterInput) { in.BirthYear = 3000 }), field: "birth_year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			requireCode(t, err, apperrors.CodeInvalidArgument)

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestIdentityService_LoginAndSessions(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIdentityService(repository.New(db), nil, time.Hour)
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	u, err := svc.Register(ctx, validRegistration("ann@example.com", "ann"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ann@example.com", "wrong password")
	requireCode(t, err, apperrors.CodeUnauthenticated)
	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	requireCode(t, err, apperrors.CodeUnauthenticated)

	sess, err := svc.Login(ctx, "ANN@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)

	got, err := svc.ResolveSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	now = now.Add(2 * time.Hour)
	_, err = svc.ResolveSession(ctx, sess.Token)
	requireCode(t, err, apperrors.CodeUnauthenticated)
	assert.Equal(t, MsgSessionExpired, err.Error())

	// A new login purges expired sessions.
	fresh, err := svc.Login(ctx, "ann@example.com", "correct horse")
	require.NoError(t, err)
	var n int64
	require.NoError(t, db.Model(&model.Session{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	require.NoError(t, svc.Logout(ctx, fresh.Token))
	_, err = svc.ResolveSession(ctx, fresh.Token)
	requireCode(t, err, apperrors.CodeUnauthenticated)

	_, err = svc.ResolveSession(ctx, "garbage")
	requireCode(t, err, apperrors.CodeUnauthenticated)
}

func TestIdentityService_RegisterLocksBeforeCountingUsers(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIdentityService(repository.New(db), nil, time.Hour)

	var (
		mu  sync.Mutex
		log []string
	)
	record := func(tx *gorm.DB) {
		mu.Lock()
		defer mu.Unlock()
		log = append(log, tx.Statement.SQL.String())
	}
	require.NoError(t, db.Callback().Raw().After("gorm:raw").Register("test:record_raw", record))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", record))

	u, err := svc.Register(context.Background(), validRegistration("ann@example.com", "ann"))
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	lockAt, countAt := -1, -1
	for i, sql := range log {
		switch {
		case lockAt < 0 && strings.HasPrefix(sql, "UPDATE users"):
			lockAt = i
		case countAt < 0 && strings.Contains(strings.ToLower(sql), "count(*)"):
			countAt = i
		}
	}
	require.GreaterOrEqual(t, lockAt, 0, "registration lock was not taken: %v", log)
	require.GreaterOrEqual(t, countAt, 0, "users were not counted: %v", log)
	assert.Less(t, lockAt, countAt)
}
