package model

import "time"

// items — справочник игровых предметов и материалов.
type Item struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"column:item_name;type:varchar(200);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ItemAttr    string `gorm:"type:text"`

	UpdatedAt time.Time `gorm:"column:last_update"`

	Stacks []Inventory `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// inventory — предметы, закреплённые за персонажем. Одна стопка на пару персонаж/предмет.
type Inventory struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	Quantity    int   `gorm:"not null"`
	CharacterID int64 `gorm:"not null;uniqueIndex:idx_inventory_stack,priority:1"`
	ItemID      int64 `gorm:"not null;index;uniqueIndex:idx_inventory_stack,priority:2"`

	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Item      *Item      `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Inventory) TableName() string {
	return "inventory"
}
