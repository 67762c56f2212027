package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories собирает все репозитории поверх одного *gorm.DB.
// Внутри Transaction все репозитории работают на одной транзакции.
type Repositories struct {
	db *gorm.DB

	Users       UserRepository
	Roles       RoleRepository
	Characters  CharacterRepository
	Attributes  AttributeRepository
	Items       ItemRepository
	Notes       NoteRepository
	Awards      AwardRepository
	Advancement AdvancementRepository
	Tickets     TicketRepository
	Sessions    SessionRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Users:       NewGormUserRepository(db),
		Roles:       NewGormRoleRepository(db),
		Characters:  NewGormCharacterRepository(db),
		Attributes:  NewGormAttributeRepository(db),
		Items:       NewGormItemRepository(db),
		Notes:       NewGormNoteRepository(db),
		Awards:      NewGormAwardRepository(db),
		Advancement: NewGormAdvancementRepository(db),
		Tickets:     NewGormTicketRepository(db),
		Sessions:    NewGormSessionRepository(db),
	}
}

// Transaction выполняет fn в одной транзакции БД с коммитом при успехе.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping проверяет доступность БД.
func (r *Repositories) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
