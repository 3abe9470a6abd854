package trips

import (
	"fmt"
	"math"
	"strings"

	"trip_planner_app/internal/models"
)

const (
	defaultTripName  = "My Trip"
	defaultCurrency  = "THB"
	defaultGroupSize = 2
)

// fieldNotes collects document paths whose values were replaced by a default
type fieldNotes []string

func (n *fieldNotes) add(path string) {
	*n = append(*n, path)
}

func (n fieldNotes) String() string {
	return strings.Join(n, ", ")
}

func pick[T any](o Optional[T], def T, notes *fieldNotes, path string) T {
	if o.Malformed {
		notes.add(path)
	}
	return o.Or(def)
}

// DayChange is a day from the incoming document, tagged as new (ID 0) or as
// an update of the existing row ID.
type DayChange struct {
	ID        uint
	Day       models.TripDay
	Locations []LocationChange
}

func (c DayChange) IsNew() bool { return c.ID == 0 }

// LocationChange is a location tagged as new (ID 0) or an update of row ID
type LocationChange struct {
	ID       uint
	Location models.TripLocation
}

func (c LocationChange) IsNew() bool { return c.ID == 0 }

// newTrip builds the trip row for a first save
func newTrip(doc *TripDocument, userID uint, notes *fieldNotes) models.Trip {
	trip := models.Trip{
		UserID:        userID,
		TripName:      pick(doc.TripName, defaultTripName, notes, "tripName"),
		Currency:      pick(doc.Currency, defaultCurrency, notes, "currency"),
		TotalTripCost: float64(pick(doc.TotalTripCost, 0, notes, "total_trip_cost")),
	}
	trip.TripType = resolveTripType(doc, models.TripTypeSolo, notes)
	trip.GroupSize = resolveGroupSize(doc, trip.TripType, nil, notes)
	return trip
}

// patchTrip applies the document's scalar fields on top of the stored trip.
// Absent, null and malformed fields keep the stored value.
func patchTrip(trip *models.Trip, doc *TripDocument, notes *fieldNotes) {
	trip.TripName = pick(doc.TripName, trip.TripName, notes, "tripName")
	trip.Currency = pick(doc.Currency, trip.Currency, notes, "currency")
	trip.TotalTripCost = float64(pick(doc.TotalTripCost, Number(trip.TotalTripCost), notes, "total_trip_cost"))

	current := trip.TripType
	if !current.Valid() {
		current = models.TripTypeSolo
	}
	trip.TripType = resolveTripType(doc, current, notes)
	trip.GroupSize = resolveGroupSize(doc, trip.TripType, trip.GroupSize, notes)
}

func resolveTripType(doc *TripDocument, current models.TripType, notes *fieldNotes) models.TripType {
	if doc.TripType.Malformed {
		notes.add("trip_type")
		return current
	}
	if !doc.TripType.Valid() {
		return current
	}
	t := models.TripType(strings.ToLower(strings.TrimSpace(doc.TripType.Value)))
	if !t.Valid() {
		notes.add("trip_type")
		return current
	}
	return t
}

// resolveGroupSize keeps group_size non-null exactly when the trip is a group trip
func resolveGroupSize(doc *TripDocument, tripType models.TripType, current *int, notes *fieldNotes) *int {
	if tripType != models.TripTypeGroup {
		return nil
	}
	if doc.GroupSize.Valid() {
		n := float64(doc.GroupSize.Value)
		if n >= 1 && n == math.Trunc(n) && n <= math.MaxInt32 {
			size := int(n)
			return &size
		}
	}
	if doc.GroupSize.Present && !doc.GroupSize.Null {
		notes.add("group_size")
	}
	if current != nil {
		size := *current
		return &size
	}
	notes.add("group_size")
	size := defaultGroupSize
	return &size
}

// transportRows turns transport_info into rows in fixed mode order
func transportRows(tripID uint, set TransportSet) []models.TransportInfo {
	rows := make([]models.TransportInfo, 0, len(set))
	for _, mode := range models.TransportModes {
		doc, ok := set[mode]
		if !ok {
			continue
		}
		rows = append(rows, models.TransportInfo{
			TripID:   tripID,
			Mode:     mode,
			Distance: float64(doc.Distance),
			Duration: string(doc.Duration.Or("")),
		})
	}
	return rows
}

// classifyDays is the single pass over the incoming days. It tags every day
// and location as new or existing by the presence of an id and computes the
// stored fields. Parent ids are filled in later from the saved rows.
func classifyDays(days []DayDocument, currency string, notes *fieldNotes) []DayChange {
	changes := make([]DayChange, 0, len(days))
	for i, doc := range days {
		path := fmt.Sprintf("days[%d]", i)
		change := DayChange{
			ID:  uint(doc.ID.Or(0)),
			Day: dayFromDocument(doc, i, notes, path),
		}
		if doc.ID.Malformed {
			notes.add(path + ".id")
		}
		change.Locations = make([]LocationChange, 0, len(doc.Locations))
		for j, loc := range doc.Locations {
			locPath := fmt.Sprintf("%s.locations[%d]", path, j)
			if loc.ID.Malformed {
				notes.add(locPath + ".id")
			}
			change.Locations = append(change.Locations, LocationChange{
				ID:       uint(loc.ID.Or(0)),
				Location: locationFromDocument(loc, j, currency, notes, locPath),
			})
		}
		changes = append(changes, change)
	}
	return changes
}

func dayFromDocument(doc DayDocument, index int, notes *fieldNotes, path string) models.TripDay {
	number := index + 1
	day := models.TripDay{
		DayNumber:    number,
		Title:        pick(doc.Title, fmt.Sprintf("Day %d", number), notes, path+".title"),
		TotalDayCost: float64(pick(doc.TotalDayCost, 0, notes, path+".total_day_cost")),
		DailyTips:    EncodeTips(doc.DailyTips),
	}

	description := pick(doc.Description, "", notes, path+".description")
	if description == "" {
		description = pick(doc.Narrative, "", notes, path+".narrative")
	}
	day.Description = description

	raw := pick(doc.Date, "", notes, path+".date")
	if raw != "" {
		if d, ok := ParseDate(raw); ok {
			day.Date = d
		} else {
			notes.add(path + ".date")
		}
	}
	return day
}

func locationFromDocument(doc LocationDocument, index int, currency string, notes *fieldNotes, path string) models.TripLocation {
	return models.TripLocation{
		Position:       index,
		Name:           pick(doc.Name, "", notes, path+".name"),
		Category:       pick(doc.Category, "", notes, path+".category"),
		Transport:      pick(doc.Transport, "", notes, path+".transport"),
		EstimatedCost:  float64(pick(doc.EstimatedCost, 0, notes, path+".estimated_cost")),
		Currency:       pick(doc.Currency, currency, notes, path+".currency"),
		GoogleMapsURL:  pick(doc.GoogleMapsURL, "", notes, path+".google_maps_url"),
		Lat:            doc.Lat.Float(),
		Lng:            doc.Lng.Float(),
		DistanceToNext: float64(doc.DistanceToNext),
	}
}

// settleIDs matches incoming ids against the ids stored under the same
// parent. An id is kept only when it names one of those rows and was not
// already claimed earlier in the document; every other id is cleared so the
// entry is inserted fresh. The stored ids nobody claimed are returned as
// orphans, in stored order.
func settleIDs(incoming []uint, stored []uint) (settled []uint, orphans []uint) {
	known := make(map[uint]bool, len(stored))
	for _, id := range stored {
		known[id] = true
	}
	claimed := make(map[uint]bool, len(incoming))
	settled = make([]uint, len(incoming))
	for i, id := range incoming {
		if id != 0 && known[id] && !claimed[id] {
			claimed[id] = true
			settled[i] = id
		}
	}
	for _, id := range stored {
		if !claimed[id] {
			orphans = append(orphans, id)
		}
	}
	return settled, orphans
}

func settleDays(changes []DayChange, stored []uint) []uint {
	ids := make([]uint, len(changes))
	for i, c := range changes {
		ids[i] = c.ID
	}
	settled, orphans := settleIDs(ids, stored)
	for i := range changes {
		changes[i].ID = settled[i]
	}
	return orphans
}

func settleLocations(changes []LocationChange, stored []uint) []uint {
	ids := make([]uint, len(changes))
	for i, c := range changes {
		ids[i] = c.ID
	}
	settled, orphans := settleIDs(ids, stored)
	for i := range changes {
		changes[i].ID = settled[i]
	}
	return orphans
}
