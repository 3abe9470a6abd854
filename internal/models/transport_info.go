package models

import "time"

// TransportMode is one of the fixed ways of getting from origin to destination
type TransportMode string

const (
	TransportModeCar    TransportMode = "car"
	TransportModeBus    TransportMode = "bus"
	TransportModeTrain  TransportMode = "train"
	TransportModeFlight TransportMode = "flight"
)

// TransportModes lists every supported mode in storage order
var TransportModes = []TransportMode{
	TransportModeCar,
	TransportModeBus,
	TransportModeTrain,
	TransportModeFlight,
}

// TransportInfo is a distance/duration estimate for one mode of a trip.
// A trip has at most one row per mode.
type TransportInfo struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TripID   uint          `gorm:"uniqueIndex:idx_transport_info_trip_mode;not null" json:"trip_id"`
	Mode     TransportMode `gorm:"type:varchar(10);uniqueIndex:idx_transport_info_trip_mode;not null" json:"mode"`
	Distance float64       `gorm:"type:decimal(12,2)" json:"distance"` // kilometres
	Duration string        `gorm:"type:varchar(100)" json:"duration"`
}

func (TransportInfo) TableName() string {
	return "transport_info"
}
