package model

// roles
type Role struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(60);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(200)"`

	Users []UserRole `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// user_roles — связывает пользователей и роли (комбинированный PK)
type UserRole struct {
	UserID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	RoleID int64 `gorm:"primaryKey;autoIncrement:false;index"`

	// Навигационные поля
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
