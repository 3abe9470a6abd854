package trips

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"trip_planner_app/internal/models"
)

// memStore is an in-memory Store. Each transaction works on a copy of the
// state that replaces the committed state only when the callback succeeds.
type memStore struct {
	mu    sync.Mutex
	state *memState
	// failOn makes the named Tx method fail inside the transaction
	failOn string
}

type memState struct {
	nextID    uint
	trips     map[uint]models.Trip
	transport map[uint][]models.TransportInfo
	days      map[uint]models.TripDay
	locations map[uint]models.TripLocation
	members   []models.TripMember
	users     map[uint]models.User
	tasks     []models.ScheduledTask
}

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{state: &memState{
		trips:     map[uint]models.Trip{},
		transport: map[uint][]models.TransportInfo{},
		days:      map[uint]models.TripDay{},
		locations: map[uint]models.TripLocation{},
		users:     map[uint]models.User{},
	}}
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:    s.nextID,
		trips:     make(map[uint]models.Trip, len(s.trips)),
		transport: make(map[uint][]models.TransportInfo, len(s.transport)),
		days:      make(map[uint]models.TripDay, len(s.days)),
		locations: make(map[uint]models.TripLocation, len(s.locations)),
		members:   append([]models.TripMember(nil), s.members...),
		users:     make(map[uint]models.User, len(s.users)),
		tasks:     append([]models.ScheduledTask(nil), s.tasks...),
	}
	for k, v := range s.trips {
		c.trips[k] = v
	}
	for k, v := range s.transport {
		c.transport[k] = append([]models.TransportInfo(nil), v...)
	}
	for k, v := range s.days {
		c.days[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

func (s *memState) id() uint {
	s.nextID++
	return s.nextID
}

func (m *memStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.state.clone()
	if err := fn(&memTx{state: work, failOn: m.failOn}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) FindTripTree(ctx context.Context, tripID uint) (*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.state.trips[tripID]
	if !ok {
		return nil, ErrNotFound
	}
	trip.Transport = append([]models.TransportInfo(nil), m.state.transport[tripID]...)
	trip.Days = m.state.daysOf(tripID)
	for i := range trip.Days {
		trip.Days[i].Locations = m.state.locationsOf(trip.Days[i].ID)
	}
	return &trip, nil
}

func (m *memStore) TripExists(ctx context.Context, tripID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.state.trips[tripID]
	return ok, nil
}

func (m *memStore) ListTripsByOwner(ctx context.Context, userID uint) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.Trip
	for _, t := range m.state.trips {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (m *memStore) ListMembers(ctx context.Context, tripID uint) ([]models.TripMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.TripMember
	for _, member := range m.state.members {
		if member.TripID == tripID {
			member.User = m.state.users[member.UserID]
			list = append(list, member)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Role == models.MemberRoleOwner && list[j].Role != models.MemberRoleOwner
	})
	return list, nil
}

func (s *memState) daysOf(tripID uint) []models.TripDay {
	var days []models.TripDay
	for _, d := range s.days {
		if d.TripID == tripID {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	return days
}

func (s *memState) locationsOf(dayID uint) []models.TripLocation {
	var locs []models.TripLocation
	for _, l := range s.locations {
		if l.DayID == dayID {
			locs = append(locs, l)
		}
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].Position < locs[j].Position })
	return locs
}

type memTx struct {
	state  *memState
	failOn string
}

func (t *memTx) fail(method string) error {
	if t.failOn == method {
		return errInjected
	}
	return nil
}

func (t *memTx) FindTrip(tripID uint, lock bool) (*models.Trip, error) {
	trip, ok := t.state.trips[tripID]
	if !ok {
		return nil, ErrNotFound
	}
	return &trip, nil
}

func (t *memTx) CreateTrip(trip *models.Trip) error {
	if err := t.fail("CreateTrip"); err != nil {
		return err
	}
	trip.ID = t.state.id()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	t.state.trips[trip.ID] = *trip
	return nil
}

func (t *memTx) UpdateTrip(trip *models.Trip) error {
	if err := t.fail("UpdateTrip"); err != nil {
		return err
	}
	trip.UpdatedAt = time.Now()
	t.state.trips[trip.ID] = *trip
	return nil
}

func (t *memTx) ReplaceTransport(tripID uint, rows []models.TransportInfo) error {
	if err := t.fail("ReplaceTransport"); err != nil {
		return err
	}
	t.state.transport[tripID] = append([]models.TransportInfo(nil), rows...)
	return nil
}

func (t *memTx) DayIDs(tripID uint) ([]uint, error) {
	var ids []uint
	for _, d := range t.state.daysOf(tripID) {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (t *memTx) CreateDay(day *models.TripDay) error {
	if err := t.fail("CreateDay"); err != nil {
		return err
	}
	day.ID = t.state.id()
	t.state.days[day.ID] = *day
	return nil
}

func (t *memTx) UpdateDay(day *models.TripDay) error {
	if err := t.fail("UpdateDay"); err != nil {
		return err
	}
	stored, ok := t.state.days[day.ID]
	if !ok || stored.TripID != day.TripID {
		return errors.New("update of a day outside the trip")
	}
	t.state.days[day.ID] = *day
	return nil
}

func (t *memTx) DeleteDays(ids []uint) error {
	if err := t.fail("DeleteDays"); err != nil {
		return err
	}
	for _, id := range ids {
		for lid, l := range t.state.locations {
			if l.DayID == id {
				delete(t.state.locations, lid)
			}
		}
		delete(t.state.days, id)
	}
	return nil
}

func (t *memTx) LocationIDs(dayID uint) ([]uint, error) {
	var ids []uint
	for _, l := range t.state.locationsOf(dayID) {
		ids = append(ids, l.ID)
	}
	return ids, nil
}

func (t *memTx) CreateLocation(loc *models.TripLocation) error {
	if err := t.fail("CreateLocation"); err != nil {
		return err
	}
	loc.ID = t.state.id()
	t.state.locations[loc.ID] = *loc
	return nil
}

func (t *memTx) UpdateLocation(loc *models.TripLocation) error {
	if err := t.fail("UpdateLocation"); err != nil {
		return err
	}
	stored, ok := t.state.locations[loc.ID]
	if !ok || stored.DayID != loc.DayID {
		return errors.New("update of a location outside the day")
	}
	t.state.locations[loc.ID] = *loc
	return nil
}

func (t *memTx) DeleteLocations(ids []uint) error {
	if err := t.fail("DeleteLocations"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(t.state.locations, id)
	}
	return nil
}

func (t *memTx) AddMember(member *models.TripMember) (bool, error) {
	for _, m := range t.state.members {
		if m.TripID == member.TripID && m.UserID == member.UserID {
			return false, nil
		}
	}
	member.ID = t.state.id()
	member.CreatedAt = time.Now()
	t.state.members = append(t.state.members, *member)
	return true, nil
}

func (t *memTx) EnqueueTask(task *models.ScheduledTask) error {
	if err := t.fail("EnqueueTask"); err != nil {
		return err
	}
	task.ID = t.state.id()
	t.state.tasks = append(t.state.tasks, *task)
	return nil
}

// recordingPublisher remembers published subjects
type recordingPublisher struct {
	subjects []string
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	p.subjects = append(p.subjects, subject)
	return nil
}
