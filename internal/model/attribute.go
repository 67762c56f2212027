package model

// attribute_types
type AttributeType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(200);not null;uniqueIndex"`

	Attributes []Attribute `gorm:"foreignKey:AttributeTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// attributes — общий справочник навыков и черт персонажей.
type Attribute struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"column:attribute_name;type:varchar(200);not null;uniqueIndex"`
	Description     string `gorm:"type:varchar(200)"`
	AttributeTypeID int64  `gorm:"not null;index"`

	AttributeType *AttributeType `gorm:"foreignKey:AttributeTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
