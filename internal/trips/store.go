package trips

import (
	"context"

	"trip_planner_app/internal/models"
)

// Store is the persistence the trip service needs. Implementations must run
// Transaction's callback in a single database transaction that commits when
// the callback returns nil and rolls back otherwise.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error

	// FindTripTree loads a trip with transport, days (by day number) and
	// locations (by position). Missing trips give ErrNotFound.
	FindTripTree(ctx context.Context, tripID uint) (*models.Trip, error)
	TripExists(ctx context.Context, tripID uint) (bool, error)
	ListTripsByOwner(ctx context.Context, userID uint) ([]models.Trip, error)
	ListMembers(ctx context.Context, tripID uint) ([]models.TripMember, error)
}

// Tx is the set of writes available inside a transaction
type Tx interface {
	// FindTrip loads the trip row, locking it for update when lock is true.
	// Missing trips give ErrNotFound.
	FindTrip(tripID uint, lock bool) (*models.Trip, error)
	CreateTrip(trip *models.Trip) error
	UpdateTrip(trip *models.Trip) error

	ReplaceTransport(tripID uint, rows []models.TransportInfo) error

	DayIDs(tripID uint) ([]uint, error)
	CreateDay(day *models.TripDay) error
	UpdateDay(day *models.TripDay) error
	// DeleteDays removes the days and every location under them
	DeleteDays(ids []uint) error

	LocationIDs(dayID uint) ([]uint, error)
	CreateLocation(loc *models.TripLocation) error
	UpdateLocation(loc *models.TripLocation) error
	DeleteLocations(ids []uint) error

	// AddMember inserts the membership unless the (trip, user) pair already
	// exists, relying on the storage uniqueness constraint. It reports
	// whether a row was created.
	AddMember(member *models.TripMember) (bool, error)

	EnqueueTask(task *models.ScheduledTask) error
}

// EventPublisher receives trip events after a successful commit
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}
