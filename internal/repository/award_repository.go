package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/model"
)

// AwardTotal: сумма начислений пользователя по одному типу награды.
type AwardTotal struct {
	AwardTypeID int64
	Name        string
	Total       int
}

type AwardRepository interface {
	ListTypes(ctx context.Context) ([]model.AwardType, error)
	GetType(ctx context.Context, id int64) (*model.AwardType, error)
	CreateType(ctx context.Context, t *model.AwardType) error

	Create(ctx context.Context, log *model.AwardLog) error
	ListByUser(ctx context.Context, userID int64) ([]model.AwardLog, error)
	TotalsByUser(ctx context.Context, userID int64) ([]AwardTotal, error)
}

type GormAwardRepository struct {
	db *gorm.DB
}

func NewGormAwardRepository(db *gorm.DB) *GormAwardRepository {
	return &GormAwardRepository{db: db}
}

func (r *GormAwardRepository) ListTypes(ctx context.Context) ([]model.AwardType, error) {
	var types []model.AwardType
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormAwardRepository) GetType(ctx context.Context, id int64) (*model.AwardType, error) {
	var t model.AwardType
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormAwardRepository) CreateType(ctx context.Context, t *model.AwardType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *GormAwardRepository) Create(ctx context.Context, log *model.AwardLog) error {
	return r.db.WithContext(ctx).Omit("User", "Character", "AwardType").Create(log).Error
}

func (r *GormAwardRepository) ListByUser(ctx context.Context, userID int64) ([]model.AwardLog, error) {
	var logs []model.AwardLog
	err := r.db.WithContext(ctx).
		Preload("AwardType").
		Preload("Character").
		Where("user_id = ?", userID).
		Order("award_date DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *GormAwardRepository) TotalsByUser(ctx context.Context, userID int64) ([]AwardTotal, error) {
	var totals []AwardTotal
	err := r.db.WithContext(ctx).
		Model(&model.AwardLog{}).
		Select("award_logs.award_type_id AS award_type_id, award_types.name AS name, COALESCE(SUM(award_logs.amount), 0) AS total").
		Joins("JOIN award_types ON award_types.id = award_logs.award_type_id").
		Where("award_logs.user_id = ?", userID).
		Group("award_logs.award_type_id, award_types.name").
		Order("award_logs.award_type_id ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
