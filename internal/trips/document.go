package trips

import (
	"bytes"
	"encoding/json"
	"log"

	"trip_planner_app/internal/models"
)

// TripDocument is a trip as authored by a client or produced by the planner.
// Field presence matters: on update an absent field keeps the stored value.
type TripDocument struct {
	TripName      Optional[string] `json:"tripName"`
	Currency      Optional[string] `json:"currency"`
	TotalTripCost Optional[Number] `json:"total_trip_cost"`
	TripType      Optional[string] `json:"trip_type"`
	GroupSize     Optional[Number] `json:"group_size"`
	TransportInfo TransportSet     `json:"transport_info"`
	Days          DayList          `json:"days"`
}

// TransportDocument is one mode's estimate inside transport_info
type TransportDocument struct {
	Distance Distance       `json:"distance"`
	Duration Optional[Text] `json:"duration"`
}

// TransportSet maps a transport mode to its estimate. Unknown modes, null
// entries and entries that are not objects are left out.
type TransportSet map[models.TransportMode]TransportDocument

func (s *TransportSet) UnmarshalJSON(data []byte) error {
	set := TransportSet{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		if !isJSONNull(data) {
			log.Printf("trip document: transport_info is not an object, ignoring it")
		}
		*s = set
		return nil
	}
	for _, mode := range models.TransportModes {
		item, ok := raw[string(mode)]
		if !ok || isJSONNull(item) {
			continue
		}
		if !isJSONObject(item) {
			log.Printf("trip document: transport_info.%s is not an object, ignoring it", mode)
			continue
		}
		var doc TransportDocument
		if err := json.Unmarshal(item, &doc); err != nil {
			log.Printf("trip document: transport_info.%s: %v", mode, err)
			continue
		}
		set[mode] = doc
	}
	*s = set
	return nil
}

// DayDocument is one day of the incoming plan. An ID marks an existing row.
type DayDocument struct {
	ID           Optional[RowID]  `json:"id"`
	Title        Optional[string] `json:"title"`
	Date         Optional[string] `json:"date"`
	Description  Optional[string] `json:"description"`
	Narrative    Optional[string] `json:"narrative"`
	DailyTips    Tips             `json:"daily_tips"`
	TotalDayCost Optional[Number] `json:"total_day_cost"`
	Locations    LocationList     `json:"locations"`
}

// LocationDocument is one place within a day. An ID marks an existing row.
type LocationDocument struct {
	ID             Optional[RowID]  `json:"id"`
	Name           Optional[string] `json:"name"`
	Category       Optional[string] `json:"category"`
	Transport      Optional[string] `json:"transport"`
	EstimatedCost  Optional[Number] `json:"estimated_cost"`
	Currency       Optional[string] `json:"currency"`
	GoogleMapsURL  Optional[string] `json:"google_maps_url"`
	Lat            Coordinate       `json:"lat"`
	Lng            Coordinate       `json:"lng"`
	DistanceToNext Distance         `json:"distance_to_next"`
}

// DayList decodes element by element so one bad entry does not drop the rest
type DayList []DayDocument

func (l *DayList) UnmarshalJSON(data []byte) error {
	*l = decodeObjectList[DayDocument](data, "days")
	return nil
}

// LocationList decodes element by element, like DayList
type LocationList []LocationDocument

func (l *LocationList) UnmarshalJSON(data []byte) error {
	*l = decodeObjectList[LocationDocument](data, "locations")
	return nil
}

func decodeObjectList[T any](data []byte, field string) []T {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		if !isJSONNull(data) {
			log.Printf("trip document: %s is not an array, treating it as empty", field)
		}
		return nil
	}
	items := make([]T, 0, len(raw))
	for i, item := range raw {
		if !isJSONObject(item) {
			log.Printf("trip document: %s[%d] is not an object, skipping it", field, i)
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			log.Printf("trip document: %s[%d]: %v", field, i, err)
			continue
		}
		items = append(items, v)
	}
	return items
}

func isJSONObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// ParseDocument decodes a trip document. Only syntactically invalid JSON or a
// top-level value that is not an object is an error.
func ParseDocument(data []byte) (*TripDocument, error) {
	if !isJSONObject(data) {
		return nil, ErrInvalidDocument
	}
	var doc TripDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
