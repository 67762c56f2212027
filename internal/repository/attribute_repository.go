package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type AttributeRepository interface {
	ListTypes(ctx context.Context) ([]model.AttributeType, error)
	GetType(ctx context.Context, id int64) (*model.AttributeType, error)
	CreateType(ctx context.Context, t *model.AttributeType) error
	UpdateType(ctx context.Context, t *model.AttributeType) error
	DeleteType(ctx context.Context, id int64) error
	CountByType(ctx context.Context, typeID int64) (int64, error)

	List(ctx context.Context) ([]model.Attribute, error)
	GetByID(ctx context.Context, id int64) (*model.Attribute, error)
	Create(ctx context.Context, a *model.Attribute) error
	Delete(ctx context.Context, id int64) error

	// SetRank создаёт или обновляет атрибут персонажа.
	SetRank(ctx context.Context, ca *model.CharacterAttribute) error
	RemoveFromCharacter(ctx context.Context, characterID, attributeID int64) error
	ListForCharacter(ctx context.Context, characterID int64) ([]model.CharacterAttribute, error)
}

type GormAttributeRepository struct {
	db *gorm.DB
}

func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

func (r *GormAttributeRepository) ListTypes(ctx context.Context) ([]model.AttributeType, error) {
	var types []model.AttributeType
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormAttributeRepository) GetType(ctx context.Context, id int64) (*model.AttributeType, error) {
	var t model.AttributeType
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormAttributeRepository) CreateType(ctx context.Context, t *model.AttributeType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *GormAttributeRepository) UpdateType(ctx context.Context, t *model.AttributeType) error {
	return r.db.WithContext(ctx).Omit("Attributes").Save(t).Error
}

func (r *GormAttributeRepository) DeleteType(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.AttributeType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormAttributeRepository) CountByType(ctx context.Context, typeID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Attribute{}).Where("attribute_type_id = ?", typeID).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormAttributeRepository) List(ctx context.Context) ([]model.Attribute, error) {
	var attrs []model.Attribute
	err := r.db.WithContext(ctx).Preload("AttributeType").Order("attribute_name ASC").Find(&attrs).Error
	if err != nil {
		return nil, err
	}
	return attrs, nil
}

func (r *GormAttributeRepository) GetByID(ctx context.Context, id int64) (*model.Attribute, error) {
	var a model.Attribute
	if err := r.db.WithContext(ctx).Preload("AttributeType").First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAttributeRepository) Create(ctx context.Context, a *model.Attribute) error {
	return r.db.WithContext(ctx).Omit("AttributeType").Create(a).Error
}

// Delete удаляет атрибут, его ранги у персонажей и опции списков развития.
func (r *GormAttributeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).Delete(&model.CharacterAttribute{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attribute_requirement_id = ?", id).Delete(&model.AdvancementListRequirement{}).Error; err != nil {
			return err
		}
		optIDs := tx.Model(&model.AdvancementListAttribute{}).Select("id").Where("attribute_id = ?", id)
		if err := tx.Where("advancement_list_attribute_id IN (?)", optIDs).Delete(&model.AdvancementListRequirement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attribute_id = ?", id).Delete(&model.AdvancementListAttribute{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Attribute{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormAttributeRepository) SetRank(ctx context.Context, ca *model.CharacterAttribute) error {
	if ca.LastModified.IsZero() {
		ca.LastModified = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Omit("Character", "Attribute").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "character_id"}, {Name: "attribute_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rank", "comments", "last_modified"}),
		}).
		Create(ca).Error
}

func (r *GormAttributeRepository) RemoveFromCharacter(ctx context.Context, characterID, attributeID int64) error {
	res := r.db.WithContext(ctx).
		Where("character_id = ? AND attribute_id = ?", characterID, attributeID).
		Delete(&model.CharacterAttribute{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormAttributeRepository) ListForCharacter(ctx context.Context, characterID int64) ([]model.CharacterAttribute, error) {
	var out []model.CharacterAttribute
	err := r.db.WithContext(ctx).
		Preload("Attribute.AttributeType").
		Where("character_id = ?", characterID).
		Order("attribute_id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
