package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type NoteRepository interface {
	ListByCharacter(ctx context.Context, characterID int64) ([]model.CharacterNote, error)
	GetByID(ctx context.Context, id int64) (*model.CharacterNote, error)
	Create(ctx context.Context, n *model.CharacterNote) error
	Update(ctx context.Context, n *model.CharacterNote) error
	Delete(ctx context.Context, id int64) error
}

type GormNoteRepository struct {
	db *gorm.DB
}

func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db}
}

func (r *GormNoteRepository) ListByCharacter(ctx context.Context, characterID int64) ([]model.CharacterNote, error) {
	var notes []model.CharacterNote
	if err := r.db.WithContext(ctx).Where("character_id = ?", characterID).Order("id ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormNoteRepository) GetByID(ctx context.Context, id int64) (*model.CharacterNote, error) {
	var n model.CharacterNote
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *GormNoteRepository) Create(ctx context.Context, n *model.CharacterNote) error {
	return r.db.WithContext(ctx).Omit("Character").Create(n).Error
}

func (r *GormNoteRepository) Update(ctx context.Context, n *model.CharacterNote) error {
	return r.db.WithContext(ctx).
		Model(&model.CharacterNote{ID: n.ID}).
		Updates(map[string]any{"title": n.Title, "body": n.Body}).Error
}

func (r *GormNoteRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CharacterNote{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
