package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type stubStore struct {
	sessions map[string]*model.Session
}

func (s stubStore) Get(_ context.Context, token string) (*model.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sess, nil
}

func TestValidateSession(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &model.User{ID: 7, Username: "gm"}

	valid := NewToken()
	expired := NewToken()
	orphan := NewToken()
	store := stubStore{sessions: map[string]*model.Session{
		valid:   {Token: valid, UserID: 7, ExpiresAt: now.Add(time.Hour), User: user},
		expired: {Token: expired, UserID: 7, ExpiresAt: now, User: user},
		orphan:  {Token: orphan, UserID: 8, ExpiresAt: now.Add(time.Hour)},
	}}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid", token: valid},
		{name: "garbage", token: "not-a-token", wantErr: ErrInvalidToken},
		{name: "empty", token: "", wantErr: ErrInvalidToken},
		{name: "unknown", token: NewToken(), wantErr: ErrInvalidToken},
		{name: "expired at boundary", token: expired, wantErr: ErrSessionExpired},
		{name: "no user", token: orphan, wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ValidateSession(context.Background(), store, tt.token, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), u.ID)
		})
	}
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &model.User{ID: 3})
	u, ok := UserFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), u.ID)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "hunter22"))
	assert.ErrorIs(t, CheckPassword(hash, "hunter23"), ErrWrongPassword)
}
