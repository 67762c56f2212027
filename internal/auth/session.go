package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/model"
)

// Ошибки проверки сессии.
var (
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")
	ErrUserNotFound   = errors.New("user not found")
)

// Источник сессий. В сервере это репозиторий, в тестах мок.
type SessionStore interface {
	Get(ctx context.Context, token string) (*model.Session, error)
}

// NewToken генерирует непрозрачный токен сессии.
func NewToken() string {
	return uuid.NewString()
}

// ValidateSession:
//   - проверяет формат токена;
//   - достаёт сессию из хранилища;
//   - проверяет срок действия на момент now;
//   - возвращает владельца сессии.
func ValidateSession(ctx context.Context, store SessionStore, token string, now time.Time) (*model.User, error) {
	token = strings.TrimSpace(token)
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrInvalidToken
	}

	s, err := store.Get(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrInvalidToken
	}
	if s.Expired(now) {
		return nil, ErrSessionExpired
	}
	if s.User == nil {
		return nil, ErrUserNotFound
	}
	return s.User, nil
}
