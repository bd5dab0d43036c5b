package models

// City is referenced by student records. Names are unique.
type City struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:255;not null" json:"name"`

	Students []Student `gorm:"foreignKey:CityID" json:"-"`
}
