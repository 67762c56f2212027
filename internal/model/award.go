package model

import "gorm.io/datatypes"

// award_types
type AwardType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(32);not null;uniqueIndex"`

	Logs []AwardLog `gorm:"foreignKey:AwardTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// award_logs — журнал начисления очков пользователю или персонажу.
type AwardLog struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"not null;index"`

	// Заполняется только для наград, выданных конкретному персонажу.
	CharacterID *int64 `gorm:"index"`

	AwardTypeID int64          `gorm:"not null;index"`
	AwardDate   datatypes.Date `gorm:"type:date;not null"`
	Amount      int            `gorm:"not null;default:0"`
	Reason      string         `gorm:"type:varchar(512)"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	AwardType *AwardType `gorm:"foreignKey:AwardTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
