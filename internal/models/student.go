package models

import "time"

// Student is a school student record. Each student references a City and,
// when provisioned, the User account matching its email.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"size:255;not null" json:"address"`
	Phone     string    `gorm:"size:50;not null" json:"phone"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Birthdate time.Time `gorm:"not null" json:"birthdate"`

	CityID uint  `gorm:"index;not null" json:"city_id"`
	City   *City `gorm:"foreignKey:CityID" json:"city,omitempty"`

	// UserID is nullable: deleting the account keeps the student record.
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`
}

// GetUserID implements policy.Ownable. Orphaned records (no owning user)
// return 0, which never matches an authenticated user id.
func (s Student) GetUserID() uint {
	if s.UserID == nil {
		return 0
	}
	return *s.UserID
}
