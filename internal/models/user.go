package models

import (
	"time"
)

// User is the local record of an authenticated Firebase principal
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirebaseUID string `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`
	Name        string `gorm:"type:varchar(255)" json:"name"`
	Email       string `gorm:"type:varchar(255);index" json:"email"`
	Phone       string `gorm:"type:varchar(50)" json:"phone,omitempty"`

	// Relationships
	Trips []Trip `gorm:"foreignKey:UserID" json:"trips,omitempty"`
}
