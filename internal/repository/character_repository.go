package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type CharacterRepository interface {
	List(ctx context.Context) ([]model.Character, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Character, error)
	GetByID(ctx context.Context, id int64) (*model.Character, error)
	Create(ctx context.Context, c *model.Character) error
	Update(ctx context.Context, c *model.Character) error
	Delete(ctx context.Context, id int64) error
	SetOwner(ctx context.Context, characterID, userID int64) error
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type GormCharacterRepository struct {
	db *gorm.DB
}

func NewGormCharacterRepository(db *gorm.DB) *GormCharacterRepository {
	return &GormCharacterRepository{db: db}
}

func (r *GormCharacterRepository) List(ctx context.Context) ([]model.Character, error) {
	var chars []model.Character
	if err := r.db.WithContext(ctx).Preload("User").Order("id ASC").Find(&chars).Error; err != nil {
		return nil, err
	}
	return chars, nil
}

func (r *GormCharacterRepository) ListByUser(ctx context.Context, userID int64) ([]model.Character, error) {
	var chars []model.Character
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&chars).Error
	if err != nil {
		return nil, err
	}
	return chars, nil
}

func (r *GormCharacterRepository) GetByID(ctx context.Context, id int64) (*model.Character, error) {
	var c model.Character
	if err := r.db.WithContext(ctx).Preload("User").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCharacterRepository) Create(ctx context.Context, c *model.Character) error {
	return r.db.WithContext(ctx).Omit("User").Create(c).Error
}

func (r *GormCharacterRepository) Update(ctx context.Context, c *model.Character) error {
	return r.db.WithContext(ctx).
		Model(&model.Character{ID: c.ID}).
		Updates(map[string]any{"character_name": c.Name, "user_id": c.UserID}).Error
}

// Delete удаляет персонажа вместе с инвентарём, заметками и атрибутами.
// Журнал наград сохраняется, ссылка на персонажа обнуляется.
func (r *GormCharacterRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("character_id = ?", id).Delete(&model.Inventory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("character_id = ?", id).Delete(&model.CharacterNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("character_id = ?", id).Delete(&model.CharacterAttribute{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.AwardLog{}).Where("character_id = ?", id).Update("character_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Character{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormCharacterRepository) SetOwner(ctx context.Context, characterID, userID int64) error {
	res := r.db.WithContext(ctx).Model(&model.Character{}).Where("id = ?", characterID).Update("user_id", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormCharacterRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Character{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
