package models

import (
	"time"

	"gorm.io/datatypes"
)

// TripDay is one day of a trip's plan
type TripDay struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TripID       uint       `gorm:"index;not null" json:"trip_id"`
	DayNumber    int        `gorm:"not null" json:"day_number"` // 1-based, follows array position
	Title        string     `gorm:"type:varchar(255)" json:"title"`
	Date         *time.Time `gorm:"type:date" json:"date"`
	Description  string     `gorm:"type:text" json:"description"`
	TotalDayCost float64    `gorm:"type:decimal(15,2)" json:"total_day_cost"`

	// DailyTips holds a JSON array of strings. Kept as text so legacy or
	// hand-edited values never break reads.
	DailyTips datatypes.JSON `gorm:"type:text;not null;default:'[]'" json:"daily_tips"`

	// Relationships
	Locations []TripLocation `gorm:"foreignKey:DayID;constraint:OnDelete:CASCADE" json:"locations,omitempty"`
}
