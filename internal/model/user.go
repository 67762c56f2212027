package model

import (
	"time"

	"gorm.io/datatypes"
)

// users
type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	Email    string `gorm:"type:varchar(60);not null;uniqueIndex"`
	Username string `gorm:"column:user_name;type:varchar(200);not null;uniqueIndex"`
	Phone    string `gorm:"type:varchar(20)"`

	FirstName string `gorm:"type:varchar(60)"`
	LastName  string `gorm:"type:varchar(60)"`

	// Дата рождения хранится частями, как её вводят в форме регистрации.
	BirthMonth string `gorm:"type:varchar(20)"`
	BirthDay   int
	BirthYear  int

	JoinDate *datatypes.Date `gorm:"type:date"`

	// Очки построения персонажа и внутриигровые очки.
	ExperiencePoints int `gorm:"not null;default:0"`
	GamePoints       int `gorm:"not null;default:0"`

	EmergencyContactName   string `gorm:"type:varchar(60)"`
	EmergencyContactNumber string `gorm:"type:varchar(20)"`

	PasswordHash string `gorm:"type:varchar(128);not null"`
	IsAdmin      bool   `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Навигационные поля
	Characters []Character `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Roles      []UserRole  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Awards     []AwardLog  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// sessions — серверные сессии, токен лежит в cookie.
type Session struct {
	Token     string `gorm:"type:varchar(36);primaryKey"`
	UserID    int64  `gorm:"not null;index"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null;index"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
