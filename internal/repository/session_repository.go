package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Omit("User").Create(s).Error
}

func (r *GormSessionRepository) Get(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	if err := r.db.WithContext(ctx).Preload("User").First(&s, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSessionRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.Session{}).Error
}

func (r *GormSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
