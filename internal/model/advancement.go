package model

// advancement_lists — списки опций для генерации и развития персонажа.
type AdvancementList struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"type:varchar(200);not null"`
	IsChargenOnly bool   `gorm:"not null;default:false"`
	IsStaffOnly   bool   `gorm:"not null;default:false"`

	Options []AdvancementListAttribute `gorm:"foreignKey:AdvancementListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// advancement_list_attributes — опция списка; доступна, если выполнены все требования.
type AdvancementListAttribute struct {
	ID                     int64 `gorm:"primaryKey;autoIncrement"`
	AdvancementListID      int64 `gorm:"not null;index"`
	AttributeID            int64 `gorm:"not null;index"`
	IsStaffOnly            bool  `gorm:"not null;default:false"`
	IsFreeWithRequirements bool  `gorm:"not null;default:false"`

	AdvancementList *AdvancementList `gorm:"foreignKey:AdvancementListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Attribute       *Attribute       `gorm:"foreignKey:AttributeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Requirements []AdvancementListRequirement `gorm:"foreignKey:AdvancementListAttributeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// advancement_list_requirements
type AdvancementListRequirement struct {
	AdvancementListAttributeID int64 `gorm:"primaryKey;autoIncrement:false"`
	AttributeRequirementID     int64 `gorm:"primaryKey;autoIncrement:false;index"`
	RequirementRank            int   `gorm:"not null;default:0"`

	Option    *AdvancementListAttribute `gorm:"foreignKey:AdvancementListAttributeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Attribute *Attribute                `gorm:"foreignKey:AttributeRequirementID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
