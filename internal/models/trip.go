package models

import (
	"time"
)

// TripType tells whether a trip is planned for one traveller or a group
type TripType string

const (
	TripTypeSolo  TripType = "solo"
	TripTypeGroup TripType = "group"
)

// Valid reports whether t is one of the known trip types
func (t TripType) Valid() bool {
	return t == TripTypeSolo || t == TripTypeGroup
}

// Trip is the root of a saved itinerary
type Trip struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID        uint     `gorm:"index;not null" json:"user_id"` // owner
	TripName      string   `gorm:"type:varchar(255)" json:"trip_name"`
	Currency      string   `gorm:"type:varchar(10)" json:"currency"`
	TotalTripCost float64  `gorm:"type:decimal(15,2)" json:"total_trip_cost"`
	TripType      TripType `gorm:"type:varchar(10);default:'solo'" json:"trip_type"`
	GroupSize     *int     `json:"group_size"` // set only for group trips

	// Relationships
	Transport []TransportInfo `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"transport,omitempty"`
	Days      []TripDay       `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"days,omitempty"`
	Members   []TripMember    `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}
