package model

import "time"

// characters — персонажи игроков, у каждого ровно один владелец.
type Character struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Name   string `gorm:"column:character_name;type:varchar(60);not null"`
	UserID int64  `gorm:"not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Attributes []CharacterAttribute `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Items      []Inventory          `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Notes      []CharacterNote      `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Awards     []AwardLog           `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// character_attributes — ранг атрибута у конкретного персонажа.
type CharacterAttribute struct {
	CharacterID  int64 `gorm:"primaryKey;autoIncrement:false"`
	AttributeID  int64 `gorm:"primaryKey;autoIncrement:false;index"`
	Rank         int   `gorm:"not null;default:0"`
	LastModified time.Time
	Comments     string `gorm:"type:varchar(1024)"`

	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Attribute *Attribute `gorm:"foreignKey:AttributeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// character_notes
type CharacterNote struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"type:varchar(200);not null"`
	Body        string `gorm:"type:text"`
	CharacterID int64  `gorm:"not null;index"`

	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
