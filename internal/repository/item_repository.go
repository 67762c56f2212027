package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type ItemRepository interface {
	List(ctx context.Context) ([]model.Item, error)
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id int64) error
	CountStacks(ctx context.Context, itemID int64) (int64, error)

	FindStack(ctx context.Context, characterID, itemID int64) (*model.Inventory, error)
	// AddToStack прибавляет qty к стопке персонажа, создавая её при отсутствии.
	AddToStack(ctx context.Context, characterID, itemID int64, qty int) (*model.Inventory, error)
	SetQuantity(ctx context.Context, stackID int64, qty int) error
	DeleteStack(ctx context.Context, stackID int64) error
	Inventory(ctx context.Context, characterID int64) ([]model.Inventory, error)
}

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Order("item_name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormItemRepository) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormItemRepository) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Omit("Stacks").Save(item).Error
}

func (r *GormItemRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormItemRepository) CountStacks(ctx context.Context, itemID int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Inventory{}).Where("item_id = ?", itemID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormItemRepository) FindStack(ctx context.Context, characterID, itemID int64) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Where("character_id = ? AND item_id = ?", characterID, itemID).
		Order("id ASC").
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormItemRepository) AddToStack(ctx context.Context, characterID, itemID int64, qty int) (*model.Inventory, error) {
	inv := &model.Inventory{CharacterID: characterID, ItemID: itemID, Quantity: qty}
	err := r.db.WithContext(ctx).
		Omit("Character", "Item").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "character_id"}, {Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("inventory.quantity + excluded.quantity"),
			}),
		}).
		Create(inv).Error
	if err != nil {
		return nil, err
	}
	// при конфликте ID в inv не заполнен, перечитываем стопку
	return r.FindStack(ctx, characterID, itemID)
}

func (r *GormItemRepository) SetQuantity(ctx context.Context, stackID int64, qty int) error {
	return r.db.WithContext(ctx).Model(&model.Inventory{}).Where("id = ?", stackID).Update("quantity", qty).Error
}

func (r *GormItemRepository) DeleteStack(ctx context.Context, stackID int64) error {
	return r.db.WithContext(ctx).Delete(&model.Inventory{}, stackID).Error
}

func (r *GormItemRepository) Inventory(ctx context.Context, characterID int64) ([]model.Inventory, error) {
	var out []model.Inventory
	err := r.db.WithContext(ctx).Preload("Item").Where("character_id = ?", characterID).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
