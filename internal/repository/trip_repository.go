package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trip_planner_app/internal/models"
	"trip_planner_app/internal/trips"
)

const uniqueViolation = "23505"

// TripRepository is the gorm backed trips.Store
type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

func (r *TripRepository) Transaction(ctx context.Context, fn func(tx trips.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&tripTx{db: tx})
	})
}

func (r *TripRepository) FindTripTree(ctx context.Context, tripID uint) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).
		Preload("Transport").
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC, id ASC")
		}).
		Preload("Days.Locations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&trip, tripID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &trip, nil
}

func (r *TripRepository) TripExists(ctx context.Context, tripID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Trip{}).Where("id = ?", tripID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TripRepository) ListTripsByOwner(ctx context.Context, userID uint) ([]models.Trip, error) {
	var list []models.Trip
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// ListMembers returns the owner first, then members by join time
func (r *TripRepository) ListMembers(ctx context.Context, tripID uint) ([]models.TripMember, error) {
	var members []models.TripMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("trip_id = ?", tripID).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN role = ? THEN 0 ELSE 1 END, created_at ASC, id ASC",
			Vars: []interface{}{string(models.MemberRoleOwner)},
		}}).
		Find(&members).Error
	return members, err
}

type tripTx struct {
	db *gorm.DB
}

func (t *tripTx) FindTrip(tripID uint, lock bool) (*models.Trip, error) {
	q := t.db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var trip models.Trip
	if err := q.First(&trip, tripID).Error; err != nil {
		return nil, notFound(err)
	}
	return &trip, nil
}

func (t *tripTx) CreateTrip(trip *models.Trip) error {
	return t.db.Omit(clause.Associations).Create(trip).Error
}

func (t *tripTx) UpdateTrip(trip *models.Trip) error {
	res := t.db.Model(trip).
		Select("trip_name", "currency", "total_trip_cost", "trip_type", "group_size", "updated_at").
		Updates(trip)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return trips.ErrNotFound
	}
	return nil
}

func (t *tripTx) ReplaceTransport(tripID uint, rows []models.TransportInfo) error {
	if err := t.db.Where("trip_id = ?", tripID).Delete(&models.TransportInfo{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return t.db.Create(&rows).Error
}

func (t *tripTx) DayIDs(tripID uint) ([]uint, error) {
	var ids []uint
	err := t.db.Model(&models.TripDay{}).Where("trip_id = ?", tripID).Order("day_number ASC").Pluck("id", &ids).Error
	return ids, err
}

func (t *tripTx) CreateDay(day *models.TripDay) error {
	return t.db.Omit(clause.Associations).Create(day).Error
}

func (t *tripTx) UpdateDay(day *models.TripDay) error {
	return t.db.Model(day).
		Where("trip_id = ?", day.TripID).
		Select("day_number", "title", "date", "description", "total_day_cost", "daily_tips", "updated_at").
		Updates(day).Error
}

func (t *tripTx) DeleteDays(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := t.db.Where("day_id IN ?", ids).Delete(&models.TripLocation{}).Error; err != nil {
		return err
	}
	return t.db.Where("id IN ?", ids).Delete(&models.TripDay{}).Error
}

func (t *tripTx) LocationIDs(dayID uint) ([]uint, error) {
	var ids []uint
	err := t.db.Model(&models.TripLocation{}).Where("day_id = ?", dayID).Order("position ASC").Pluck("id", &ids).Error
	return ids, err
}

func (t *tripTx) CreateLocation(loc *models.TripLocation) error {
	return t.db.Create(loc).Error
}

func (t *tripTx) UpdateLocation(loc *models.TripLocation) error {
	return t.db.Model(loc).
		Where("day_id = ?", loc.DayID).
		Select("position", "name", "category", "transport", "estimated_cost", "currency",
			"google_maps_url", "lat", "lng", "distance_to_next", "updated_at").
		Updates(loc).Error
}

func (t *tripTx) DeleteLocations(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return t.db.Where("id IN ?", ids).Delete(&models.TripLocation{}).Error
}

func (t *tripTx) AddMember(member *models.TripMember) (bool, error) {
	res := t.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trip_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(member)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (t *tripTx) EnqueueTask(task *models.ScheduledTask) error {
	return t.db.Create(task).Error
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return trips.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
