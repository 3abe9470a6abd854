package trips

import (
	"context"
	"fmt"
	"log"
	"time"

	"trip_planner_app/internal/models"
	"trip_planner_app/internal/tasks"
)

const (
	SubjectTripSaved   = "trips.saved"
	SubjectTripUpdated = "trips.updated"
	SubjectTripJoined  = "trips.joined"
)

// TripEvent is the payload published for trip changes
type TripEvent struct {
	TripID uint      `json:"trip_id"`
	UserID uint      `json:"user_id"`
	At     time.Time `json:"at"`
}

// Service saves, reconciles and reads trip trees
type Service struct {
	store  Store
	events EventPublisher
	now    func() time.Time
}

// NewService creates a Service. events may be nil.
func NewService(store Store, events EventPublisher) *Service {
	return &Service{store: store, events: events, now: time.Now}
}

// Save stores a brand new trip with all of its children and returns its id.
// Ids inside the document are ignored: everything is inserted fresh.
func (s *Service) Save(ctx context.Context, userID uint, doc *TripDocument) (uint, error) {
	if userID == 0 {
		return 0, ErrUnauthorized
	}
	if doc == nil {
		doc = &TripDocument{}
	}

	var notes fieldNotes
	var tripID uint
	err := s.store.Transaction(ctx, func(tx Tx) error {
		trip := newTrip(doc, userID, &notes)
		if err := tx.CreateTrip(&trip); err != nil {
			return fmt.Errorf("create trip: %w", err)
		}
		tripID = trip.ID

		if _, err := tx.AddMember(&models.TripMember{TripID: trip.ID, UserID: userID, Role: models.MemberRoleOwner}); err != nil {
			return fmt.Errorf("add owner: %w", err)
		}
		if err := tx.ReplaceTransport(trip.ID, transportRows(trip.ID, doc.TransportInfo)); err != nil {
			return fmt.Errorf("save transport: %w", err)
		}

		changes := classifyDays(doc.Days, trip.Currency, &notes)
		for i := range changes {
			changes[i].ID = 0
			for j := range changes[i].Locations {
				changes[i].Locations[j].ID = 0
			}
		}
		return applyDays(tx, trip.ID, changes, nil)
	})
	if err != nil {
		return 0, err
	}

	s.logDefaults(tripID, notes)
	s.publish(ctx, SubjectTripSaved, tripID, userID)
	return tripID, nil
}

// Update reconciles the stored trip with doc. Only the owner may update.
// Scalars absent from doc keep their stored values, transport legs are
// replaced, and days and locations are matched by id: known ids are
// updated, the rest inserted, and stored rows missing from doc deleted.
func (s *Service) Update(ctx context.Context, tripID, userID uint, doc *TripDocument) (uint, error) {
	if userID == 0 {
		return 0, ErrUnauthorized
	}
	if doc == nil {
		doc = &TripDocument{}
	}

	var notes fieldNotes
	err := s.store.Transaction(ctx, func(tx Tx) error {
		trip, err := tx.FindTrip(tripID, true)
		if err != nil {
			return err
		}
		if trip.UserID != userID {
			return ErrForbidden
		}

		patchTrip(trip, doc, &notes)
		if err := tx.UpdateTrip(trip); err != nil {
			return fmt.Errorf("update trip: %w", err)
		}
		if err := tx.ReplaceTransport(trip.ID, transportRows(trip.ID, doc.TransportInfo)); err != nil {
			return fmt.Errorf("replace transport: %w", err)
		}

		stored, err := tx.DayIDs(trip.ID)
		if err != nil {
			return fmt.Errorf("load days: %w", err)
		}
		changes := classifyDays(doc.Days, trip.Currency, &notes)
		orphans := settleDays(changes, stored)
		if err := applyDays(tx, trip.ID, changes, tx.LocationIDs); err != nil {
			return err
		}
		if len(orphans) > 0 {
			if err := tx.DeleteDays(orphans); err != nil {
				return fmt.Errorf("delete days: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logDefaults(tripID, notes)
	s.publish(ctx, SubjectTripUpdated, tripID, userID)
	return tripID, nil
}

// applyDays writes every day and its locations. storedLocations lists the
// location ids currently under an existing day; it is nil on first save.
func applyDays(tx Tx, tripID uint, changes []DayChange, storedLocations func(dayID uint) ([]uint, error)) error {
	for i := range changes {
		change := &changes[i]
		day := change.Day
		day.TripID = tripID

		var stored []uint
		if change.IsNew() {
			if err := tx.CreateDay(&day); err != nil {
				return fmt.Errorf("create day %d: %w", day.DayNumber, err)
			}
		} else {
			day.ID = change.ID
			if err := tx.UpdateDay(&day); err != nil {
				return fmt.Errorf("update day %d: %w", day.DayNumber, err)
			}
			if storedLocations != nil {
				ids, err := storedLocations(day.ID)
				if err != nil {
					return fmt.Errorf("load locations of day %d: %w", day.DayNumber, err)
				}
				stored = ids
			}
		}

		orphans := settleLocations(change.Locations, stored)
		for j := range change.Locations {
			loc := change.Locations[j].Location
			loc.DayID = day.ID
			if change.Locations[j].IsNew() {
				if err := tx.CreateLocation(&loc); err != nil {
					return fmt.Errorf("create location %d of day %d: %w", j+1, day.DayNumber, err)
				}
			} else {
				loc.ID = change.Locations[j].ID
				if err := tx.UpdateLocation(&loc); err != nil {
					return fmt.Errorf("update location %d of day %d: %w", j+1, day.DayNumber, err)
				}
			}
		}
		if len(orphans) > 0 {
			if err := tx.DeleteLocations(orphans); err != nil {
				return fmt.Errorf("delete locations of day %d: %w", day.DayNumber, err)
			}
		}
	}
	return nil
}

// Join adds userID to the trip as a member. Joining twice is a no-op; the
// trip owner joining their own trip is a no-op too. It reports whether a
// membership row was created.
func (s *Service) Join(ctx context.Context, tripID, userID uint) (bool, error) {
	if userID == 0 {
		return false, ErrUnauthorized
	}

	var joined bool
	err := s.store.Transaction(ctx, func(tx Tx) error {
		trip, err := tx.FindTrip(tripID, false)
		if err != nil {
			return err
		}

		role := models.MemberRoleMember
		if trip.UserID == userID {
			role = models.MemberRoleOwner
		}
		created, err := tx.AddMember(&models.TripMember{TripID: trip.ID, UserID: userID, Role: role})
		if err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		joined = created && role == models.MemberRoleMember
		if !joined {
			return nil
		}

		task, err := tasks.NotifyTripJoinTask.CreateTask(tasks.NotifyTripJoinArgs{
			TripID:   trip.ID,
			TripName: trip.TripName,
			OwnerID:  trip.UserID,
			MemberID: userID,
		})
		if err != nil {
			return fmt.Errorf("build join notification: %w", err)
		}
		return tx.EnqueueTask(task)
	})
	if err != nil {
		return false, err
	}

	if joined {
		s.publish(ctx, SubjectTripJoined, tripID, userID)
	}
	return joined, nil
}

// Get returns the full trip tree in document shape
func (s *Service) Get(ctx context.Context, tripID uint) (*TripDetail, error) {
	trip, err := s.store.FindTripTree(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return NewTripDetail(trip), nil
}

// ListByOwner returns summaries of the user's trips, newest first
func (s *Service) ListByOwner(ctx context.Context, userID uint) ([]TripSummary, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	trips, err := s.store.ListTripsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]TripSummary, 0, len(trips))
	for _, t := range trips {
		summaries = append(summaries, NewTripSummary(t))
	}
	return summaries, nil
}

// Members lists the members of a trip, owner first
func (s *Service) Members(ctx context.Context, tripID uint) ([]MemberView, error) {
	exists, err := s.store.TripExists(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	members, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, NewMemberView(m))
	}
	return views, nil
}

func (s *Service) logDefaults(tripID uint, notes fieldNotes) {
	if len(notes) == 0 {
		return
	}
	log.Printf("trip %d: defaults applied to malformed fields: %s", tripID, notes)
}

func (s *Service) publish(ctx context.Context, subject string, tripID, userID uint) {
	if s.events == nil {
		return
	}
	event := TripEvent{TripID: tripID, UserID: userID, At: s.now()}
	if err := s.events.Publish(ctx, subject, event); err != nil {
		log.Printf("trip %d: failed to publish %s: %v", tripID, subject, err)
	}
}
