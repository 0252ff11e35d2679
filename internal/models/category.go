package models

// Category is a flat, uniquely named label attachable to operations.
// No hierarchy.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:80;not null" json:"name"`

	Operations []Operation `gorm:"foreignKey:CategoryID" json:"-"`
}
