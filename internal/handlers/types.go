package handlers

import "trip_planner_app/internal/services"

// TripSavedResponse is returned by save and update
type TripSavedResponse struct {
	Message string `json:"message"`
	TripID  uint   `json:"tripId"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// PlacesResponse wraps a nearby lookup
type PlacesResponse struct {
	Places []services.Place `json:"places"`
}

// CurrentUserResponse describes the authenticated caller
type CurrentUserResponse struct {
	ID    uint   `json:"id"`
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
