package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Leganyst/campaign-platform/internal/auth"
	"github.com/Leganyst/campaign-platform/internal/model"
)

type resolverFunc func(ctx context.Context, token string) (*model.User, error)

func (f resolverFunc) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	return f(ctx, token)
}

func TestWithLogging_RecordsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := WithLogging(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/roles", nil))

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/admin/roles", fields["path"])
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoadUserAndRequireUser(t *testing.T) {
	resolver := resolverFunc(func(_ context.Context, token string) (*model.User, error) {
		if token == "good" {
			return &model.User{ID: 5}, nil
		}
		return nil, errors.New("bad token")
	})

	var seen *model.User
	h := LoadUser(resolver, "sid", RequireUser(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		cookie   string
		wantCode int
	}{
		{name: "no cookie", wantCode: http.StatusSeeOther},
		{name: "bad cookie", cookie: "bad", wantCode: http.StatusSeeOther},
		{name: "good cookie", cookie: "good", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sid", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, int64(5), seen.ID)
			} else {
				assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
			}
		})
	}
}
