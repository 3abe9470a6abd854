package models

import "time"

// TripLocation is a place or activity visited on a trip day
type TripLocation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DayID    uint `gorm:"index;not null" json:"day_id"`
	Position int  `gorm:"not null;default:0" json:"position"` // index within the day

	Name           string   `gorm:"type:varchar(255)" json:"name"`
	Category       string   `gorm:"type:varchar(100)" json:"category"`
	Transport      string   `gorm:"type:varchar(100)" json:"transport"`
	EstimatedCost  float64  `gorm:"type:decimal(15,2)" json:"estimated_cost"`
	Currency       string   `gorm:"type:varchar(10)" json:"currency"`
	GoogleMapsURL  string   `gorm:"column:google_maps_url;type:text" json:"google_maps_url"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	DistanceToNext float64  `gorm:"type:decimal(12,2)" json:"distance_to_next"`
}
