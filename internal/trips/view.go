package trips

import (
	"time"

	"trip_planner_app/internal/models"
)

// TripDetail is a stored trip in the same shape as an incoming document, so
// that it can be sent back through Update unchanged.
type TripDetail struct {
	ID            uint                                     `json:"id"`
	UserID        uint                                     `json:"user_id"`
	TripName      string                                   `json:"tripName"`
	Currency      string                                   `json:"currency"`
	TotalTripCost float64                                  `json:"total_trip_cost"`
	TripType      models.TripType                          `json:"trip_type"`
	GroupSize     *int                                     `json:"group_size"`
	TransportInfo map[models.TransportMode]TransportDetail `json:"transport_info"`
	Days          []DayDetail                              `json:"days"`
	CreatedAt     time.Time                                `json:"createdAt"`
	UpdatedAt     time.Time                                `json:"updatedAt"`
}

type TransportDetail struct {
	Distance float64 `json:"distance"`
	Duration string  `json:"duration"`
}

type DayDetail struct {
	ID           uint             `json:"id"`
	DayNumber    int              `json:"day_number"`
	Title        string           `json:"title"`
	Date         *string          `json:"date"`
	Description  string           `json:"description"`
	DailyTips    []string         `json:"daily_tips"`
	TotalDayCost float64          `json:"total_day_cost"`
	Locations    []LocationDetail `json:"locations"`
}

type LocationDetail struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Transport      string   `json:"transport"`
	EstimatedCost  float64  `json:"estimated_cost"`
	Currency       string   `json:"currency"`
	GoogleMapsURL  string   `json:"google_maps_url"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	DistanceToNext float64  `json:"distance_to_next"`
}

// TripSummary is a row of the owner's trip list
type TripSummary struct {
	ID            uint            `json:"id"`
	TripName      string          `json:"tripName"`
	Currency      string          `json:"currency"`
	TotalTripCost float64         `json:"total_trip_cost"`
	CreatedAt     time.Time       `json:"createdAt"`
	TripType      models.TripType `json:"trip_type"`
	GroupSize     *int            `json:"group_size"`
}

type MemberView struct {
	UserID   uint              `json:"user_id"`
	Name     string            `json:"name"`
	Role     models.MemberRole `json:"role"`
	JoinedAt time.Time         `json:"joined_at"`
}

// NewTripDetail converts a loaded trip tree. Days and locations keep the
// order they were loaded in.
func NewTripDetail(trip *models.Trip) *TripDetail {
	detail := &TripDetail{
		ID:            trip.ID,
		UserID:        trip.UserID,
		TripName:      trip.TripName,
		Currency:      trip.Currency,
		TotalTripCost: trip.TotalTripCost,
		TripType:      trip.TripType,
		GroupSize:     trip.GroupSize,
		TransportInfo: make(map[models.TransportMode]TransportDetail, len(trip.Transport)),
		Days:          make([]DayDetail, 0, len(trip.Days)),
		CreatedAt:     trip.CreatedAt,
		UpdatedAt:     trip.UpdatedAt,
	}
	for _, t := range trip.Transport {
		detail.TransportInfo[t.Mode] = TransportDetail{Distance: t.Distance, Duration: t.Duration}
	}
	for _, d := range trip.Days {
		day := DayDetail{
			ID:           d.ID,
			DayNumber:    d.DayNumber,
			Title:        d.Title,
			Description:  d.Description,
			DailyTips:    DecodeTips(d.DailyTips),
			TotalDayCost: d.TotalDayCost,
			Locations:    make([]LocationDetail, 0, len(d.Locations)),
		}
		if d.Date != nil {
			date := d.Date.Format(dateLayout)
			day.Date = &date
		}
		for _, l := range d.Locations {
			day.Locations = append(day.Locations, LocationDetail{
				ID:             l.ID,
				Name:           l.Name,
				Category:       l.Category,
				Transport:      l.Transport,
				EstimatedCost:  l.EstimatedCost,
				Currency:       l.Currency,
				GoogleMapsURL:  l.GoogleMapsURL,
				Lat:            l.Lat,
				Lng:            l.Lng,
				DistanceToNext: l.DistanceToNext,
			})
		}
		detail.Days = append(detail.Days, day)
	}
	return detail
}

func NewTripSummary(trip models.Trip) TripSummary {
	return TripSummary{
		ID:            trip.ID,
		TripName:      trip.TripName,
		Currency:      trip.Currency,
		TotalTripCost: trip.TotalTripCost,
		CreatedAt:     trip.CreatedAt,
		TripType:      trip.TripType,
		GroupSize:     trip.GroupSize,
	}
}

func NewMemberView(m models.TripMember) MemberView {
	return MemberView{
		UserID:   m.UserID,
		Name:     m.User.Name,
		Role:     m.Role,
		JoinedAt: m.CreatedAt,
	}
}
