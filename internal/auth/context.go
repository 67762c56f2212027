package auth

import (
	"context"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type ctxKey struct{}

// WithUser кладёт текущего пользователя в контекст запроса.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom возвращает текущего пользователя, если он аутентифицирован.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*model.User)
	return u, ok && u != nil
}
