package model

import (
	"fmt"

	"gorm.io/gorm"
)

// MigrationOrder возвращает модели в порядке зависимостей:
// справочники, пользователи, зависимые сущности и в конце join-таблицы.
func MigrationOrder() []any {
	return []any{
		// Независимые справочники.
		&AttributeType{},
		&Role{},
		&Item{},
		&AwardType{},
		&Bucket{},

		&User{},

		// Зависимые сущности.
		&Character{},
		&Attribute{},
		&AwardLog{},
		&Inventory{},
		&CharacterNote{},
		&AdvancementList{},
		&AdvancementListAttribute{},
		&BucketTicket{},

		// Join-таблицы.
		&UserRole{},
		&CharacterAttribute{},
		&AdvancementListRequirement{},
		&TicketComment{},
		&TicketAccess{},

		&Session{},
	}
}

// AutoMigrate выполняет миграцию всех сущностей кампании.
// Модели мигрируются по одной, чтобы порядок создания таблиц был явным.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range MigrationOrder() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}

// Rollback удаляет таблицы в порядке, обратном MigrationOrder.
func Rollback(db *gorm.DB) error {
	models := MigrationOrder()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop %T: %w", models[i], err)
		}
	}
	return nil
}
