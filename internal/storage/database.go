package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// DatabaseStore implements Store on PostgreSQL via GORM. Trip scans use
// keyset pagination over (created_at, id), which is what the continuation
// token encodes.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given database handle.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Trip operations

func (s *DatabaseStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	return s.db.WithContext(ctx).Create(trip).Error
}

func (s *DatabaseStore) GetTrip(ctx context.Context, carrierID, tripID string) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.WithContext(ctx).
		Where("carrier_id = ? AND id = ?", carrierID, tripID).
		First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *DatabaseStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	res := s.db.WithContext(ctx).Model(trip).
		Where("carrier_id = ?", trip.CarrierID).
		Select("*").Updates(trip)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStore) QueryTrips(ctx context.Context, carrierID string, q TripQuery, token string, limit int) ([]models.Trip, string, error) {
	if limit <= 0 {
		limit = models.DefaultPageSize
	}

	tx := s.db.WithContext(ctx).Model(&models.Trip{}).Where("carrier_id = ?", carrierID)
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.StartDate != nil {
		tx = tx.Where("scheduled_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		tx = tx.Where("scheduled_at <= ?", *q.EndDate)
	}
	if q.BrokerID != "" {
		tx = tx.Where("broker_id = ?", q.BrokerID)
	}
	if q.DispatcherID != "" {
		tx = tx.Where("dispatcher_id = ?", q.DispatcherID)
	}
	if q.DriverID != "" {
		tx = tx.Where("driver_id = ?", q.DriverID)
	}
	if q.TruckID != "" {
		tx = tx.Where("truck_id = ?", q.TruckID)
	}
	if token != "" {
		key, err := decodeToken(token)
		if err != nil {
			return nil, "", err
		}
		tx = tx.Where("(created_at, id) > (?, ?)", key.CreatedAt, key.ID)
	}

	var trips []models.Trip
	if err := tx.Order("created_at, id").Limit(limit).Find(&trips).Error; err != nil {
		return nil, "", err
	}

	// A full page may or may not have more behind it; the next fetch finds
	// out. A short page is guaranteed final.
	next := ""
	if len(trips) == limit {
		last := trips[len(trips)-1]
		next = encodeToken(pageKey{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return trips, next, nil
}

// Broker operations

func (s *DatabaseStore) CreateBroker(ctx context.Context, broker *models.Broker) error {
	return s.db.WithContext(ctx).Create(broker).Error
}

func (s *DatabaseStore) GetBroker(ctx context.Context, carrierID, brokerID string) (*models.Broker, error) {
	var b models.Broker
	err := s.db.WithContext(ctx).
		Where("carrier_id = ? AND id = ? AND deleted = false", carrierID, brokerID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *DatabaseStore) ListBrokers(ctx context.Context, carrierID string) ([]models.Broker, error) {
	var out []models.Broker
	err := s.db.WithContext(ctx).
		Where("carrier_id = ? AND deleted = false", carrierID).
		Order("id").Find(&out).Error
	return out, err
}

func (s *DatabaseStore) UpdateBroker(ctx context.Context, broker *models.Broker) error {
	return s.saveExisting(ctx, broker.CarrierID, broker.ID, broker)
}

func (s *DatabaseStore) DeleteBroker(ctx context.Context, carrierID, brokerID string) error {
	return s.softDelete(ctx, &models.Broker{}, carrierID, brokerID)
}

// User operations

func (s *DatabaseStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *DatabaseStore) GetUser(ctx context.Context, carrierID, userID string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("carrier_id = ? AND id = ? AND deleted = false", carrierID, userID).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DatabaseStore) ListUsers(ctx context.Context, carrierID string, role models.UserRole) ([]models.User, error) {
	tx := s.db.WithContext(ctx).Where("carrier_id = ? AND deleted = false", carrierID)
	if role != "" {
		tx = tx.Where("role = ?", role)
	}
	var out []models.User
	err := tx.Order("id").Find(&out).Error
	return out, err
}

func (s *DatabaseStore) UpdateUser(ctx context.Context, user *models.User) error {
	return s.saveExisting(ctx, user.CarrierID, user.ID, user)
}

func (s *DatabaseStore) DeleteUser(ctx context.Context, carrierID, userID string) error {
	return s.softDelete(ctx, &models.User{}, carrierID, userID)
}

// Truck operations

func (s *DatabaseStore) CreateTruck(ctx context.Context, truck *models.Truck) error {
	return s.db.WithContext(ctx).Create(truck).Error
}

func (s *DatabaseStore) GetTruck(ctx context.Context, carrierID, truckID string) (*models.Truck, error) {
	var t models.Truck
	err := s.db.WithContext(ctx).
		Where("carrier_id = ? AND id = ? AND deleted = false", carrierID, truckID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *DatabaseStore) ListTrucks(ctx context.Context, carrierID string) ([]models.Truck, error) {
	var out []models.Truck
	err := s.db.WithContext(ctx).
		Where("carrier_id = ? AND deleted = false", carrierID).
		Order("id").Find(&out).Error
	return out, err
}

func (s *DatabaseStore) UpdateTruck(ctx context.Context, truck *models.Truck) error {
	return s.saveExisting(ctx, truck.CarrierID, truck.ID, truck)
}

func (s *DatabaseStore) DeleteTruck(ctx context.Context, carrierID, truckID string) error {
	return s.softDelete(ctx, &models.Truck{}, carrierID, truckID)
}

// Trailer operations

func (s *DatabaseStore) CreateTrailer(ctx context.Context, trailer *models.Trailer) error {
	return s.db.WithContext(ctx).Create(trailer).Error
}

func (s *DatabaseStore) GetTrailer(ctx context.Context, carrierID, trailerID string) (*models.Trailer, error) {
	var t models.Trailer
	err := s.db.WithContext(ctx).
		Where("carrier_id = ? AND id = ? AND deleted = false", carrierID, trailerID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *DatabaseStore) ListTrailers(ctx context.Context, carrierID string) ([]models.Trailer, error) {
	var out []models.Trailer
	err := s.db.WithContext(ctx).
		Where("carrier_id = ? AND deleted = false", carrierID).
		Order("id").Find(&out).Error
	return out, err
}

func (s *DatabaseStore) UpdateTrailer(ctx context.Context, trailer *models.Trailer) error {
	return s.saveExisting(ctx, trailer.CarrierID, trailer.ID, trailer)
}

func (s *DatabaseStore) DeleteTrailer(ctx context.Context, carrierID, trailerID string) error {
	return s.softDelete(ctx, &models.Trailer{}, carrierID, trailerID)
}

// ResolveNames maps ids to display names for one entity kind.
func (s *DatabaseStore) ResolveNames(ctx context.Context, carrierID string, kind models.EntityKind, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	type row struct {
		ID   string
		Name string
	}
	var rows []row

	tx := s.db.WithContext(ctx).
		Where("carrier_id = ? AND deleted = false AND id IN ?", carrierID, ids)
	switch kind {
	case models.KindBroker:
		tx = tx.Model(&models.Broker{}).Select("id", "name")
	case models.KindDriver:
		tx = tx.Model(&models.User{}).Select("id", "name").Where("role = ?", models.RoleDriver)
	case models.KindDispatcher:
		tx = tx.Model(&models.User{}).Select("id", "name").Where("role = ?", models.RoleDispatcher)
	case models.KindTruck:
		tx = tx.Model(&models.Truck{}).Select("id", "unit_number AS name")
	case models.KindTrailer:
		tx = tx.Model(&models.Trailer{}).Select("id", "unit_number AS name")
	default:
		return map[string]string{}, nil
	}
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Name
	}
	return out, nil
}

func (s *DatabaseStore) saveExisting(ctx context.Context, carrierID, id string, record any) error {
	res := s.db.WithContext(ctx).Model(record).
		Where("carrier_id = ? AND id = ? AND deleted = false", carrierID, id).
		Select("*").Updates(record)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStore) softDelete(ctx context.Context, model any, carrierID, id string) error {
	res := s.db.WithContext(ctx).Model(model).
		Where("carrier_id = ? AND id = ? AND deleted = false", carrierID, id).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
