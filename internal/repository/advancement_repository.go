package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type AdvancementRepository interface {
	ListLists(ctx context.Context) ([]model.AdvancementList, error)
	GetList(ctx context.Context, id int64) (*model.AdvancementList, error)
	CreateList(ctx context.Context, l *model.AdvancementList) error
	CreateOption(ctx context.Context, opt *model.AdvancementListAttribute) error
	AddRequirement(ctx context.Context, req *model.AdvancementListRequirement) error
}

type GormAdvancementRepository struct {
	db *gorm.DB
}

func NewGormAdvancementRepository(db *gorm.DB) *GormAdvancementRepository {
	return &GormAdvancementRepository{db: db}
}

func (r *GormAdvancementRepository) ListLists(ctx context.Context) ([]model.AdvancementList, error) {
	var lists []model.AdvancementList
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList загружает список вместе с опциями и их требованиями.
func (r *GormAdvancementRepository) GetList(ctx context.Context, id int64) (*model.AdvancementList, error) {
	var l model.AdvancementList
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Options.Attribute").
		Preload("Options.Requirements").
		Preload("Options.Requirements.Attribute").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *GormAdvancementRepository) CreateList(ctx context.Context, l *model.AdvancementList) error {
	return r.db.WithContext(ctx).Omit("Options").Create(l).Error
}

func (r *GormAdvancementRepository) CreateOption(ctx context.Context, opt *model.AdvancementListAttribute) error {
	return r.db.WithContext(ctx).Omit("AdvancementList", "Attribute", "Requirements").Create(opt).Error
}

func (r *GormAdvancementRepository) AddRequirement(ctx context.Context, req *model.AdvancementListRequirement) error {
	return r.db.WithContext(ctx).Omit("Option", "Attribute").Create(req).Error
}
