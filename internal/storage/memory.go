package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// MemoryStore holds all data in memory. Used by tests and local development
// (USE_MEMORY_STORE=true).
//
// Trips within a carrier partition scan in (CreatedAt, ID) order. A scan
// examines up to limit candidate records per call and returns the ones that
// match, so a heavily filtered page may come back shorter than limit with a
// continuation token still present. That mirrors how the production backend
// behaves and keeps the sparse-page code paths honest in tests.
type MemoryStore struct {
	trips    map[string]*models.Trip
	brokers  map[string]*models.Broker
	users    map[string]*models.User
	trucks   map[string]*models.Truck
	trailers map[string]*models.Trailer

	tripMu   sync.RWMutex
	entityMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:    make(map[string]*models.Trip),
		brokers:  make(map[string]*models.Broker),
		users:    make(map[string]*models.User),
		trucks:   make(map[string]*models.Truck),
		trailers: make(map[string]*models.Trailer),
	}
}

// Trip operations

func (m *MemoryStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	m.tripMu.Lock()
	defer m.tripMu.Unlock()

	m.trips[trip.ID] = trip
	return nil
}

func (m *MemoryStore) GetTrip(ctx context.Context, carrierID, tripID string) (*models.Trip, error) {
	m.tripMu.RLock()
	defer m.tripMu.RUnlock()

	trip, exists := m.trips[tripID]
	if !exists || trip.CarrierID != carrierID {
		return nil, ErrNotFound
	}
	cp := *trip
	return &cp, nil
}

func (m *MemoryStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	m.tripMu.Lock()
	defer m.tripMu.Unlock()

	existing, exists := m.trips[trip.ID]
	if !exists || existing.CarrierID != trip.CarrierID {
		return ErrNotFound
	}
	cp := *trip
	m.trips[trip.ID] = &cp
	return nil
}

func (m *MemoryStore) QueryTrips(ctx context.Context, carrierID string, q TripQuery, token string, limit int) ([]models.Trip, string, error) {
	if limit <= 0 {
		limit = models.DefaultPageSize
	}

	m.tripMu.RLock()
	defer m.tripMu.RUnlock()

	partition := make([]*models.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		if t.CarrierID == carrierID {
			partition = append(partition, t)
		}
	}
	sort.Slice(partition, func(i, j int) bool {
		a, b := partition[i], partition[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	start := 0
	if token != "" {
		key, err := decodeToken(token)
		if err != nil {
			return nil, "", err
		}
		start = sort.Search(len(partition), func(i int) bool {
			return key.less(partition[i].CreatedAt, partition[i].ID)
		})
	}

	end := start + limit
	if end > len(partition) {
		end = len(partition)
	}

	var matched []models.Trip
	for _, t := range partition[start:end] {
		if tripMatches(t, q) {
			matched = append(matched, *t)
		}
	}

	next := ""
	if end < len(partition) {
		last := partition[end-1]
		next = encodeToken(pageKey{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return matched, next, nil
}

func tripMatches(t *models.Trip, q TripQuery) bool {
	if q.Status != "" && t.Status != q.Status {
		return false
	}
	if q.StartDate != nil && t.ScheduledAt.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && t.ScheduledAt.After(*q.EndDate) {
		return false
	}
	if q.BrokerID != "" && t.BrokerID != q.BrokerID {
		return false
	}
	if q.DispatcherID != "" && t.DispatcherID != q.DispatcherID {
		return false
	}
	if q.DriverID != "" && t.DriverID != q.DriverID {
		return false
	}
	if q.TruckID != "" && t.TruckID != q.TruckID {
		return false
	}
	return true
}

// Broker operations

func (m *MemoryStore) CreateBroker(ctx context.Context, broker *models.Broker) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()
	m.brokers[broker.ID] = broker
	return nil
}

func (m *MemoryStore) GetBroker(ctx context.Context, carrierID, brokerID string) (*models.Broker, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	b, exists := m.brokers[brokerID]
	if !exists || b.CarrierID != carrierID || b.Deleted {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) ListBrokers(ctx context.Context, carrierID string) ([]models.Broker, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	var out []models.Broker
	for _, b := range m.brokers {
		if b.CarrierID == carrierID && !b.Deleted {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateBroker(ctx context.Context, broker *models.Broker) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()

	existing, exists := m.brokers[broker.ID]
	if !exists || existing.CarrierID != broker.CarrierID || existing.Deleted {
		return ErrNotFound
	}
	cp := *broker
	m.brokers[broker.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteBroker(ctx context.Context, carrierID, brokerID string) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()

	b, exists := m.brokers[brokerID]
	if !exists || b.CarrierID != carrierID || b.Deleted {
		return ErrNotFound
	}
	b.Deleted = true
	return nil
}

// User operations

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, carrierID, userID string) (*models.User, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	u, exists := m.users[userID]
	if !exists || u.CarrierID != carrierID || u.Deleted {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) ListUsers(ctx context.Context, carrierID string, role models.UserRole) ([]models.User, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	var out []models.User
	for _, u := range m.users {
		if u.CarrierID == carrierID && !u.Deleted && (role == "" || u.Role == role) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()

	existing, exists := m.users[user.ID]
	if !exists || existing.CarrierID != user.CarrierID || existing.Deleted {
		return ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, carrierID, userID string) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()

	u, exists := m.users[userID]
	if !exists || u.CarrierID != carrierID || u.Deleted {
		return ErrNotFound
	}
	u.Deleted = true
	return nil
}

// Truck operations

func (m *MemoryStore) CreateTruck(ctx context.Context, truck *models.Truck) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()
	m.trucks[truck.ID] = truck
	return nil
}

func (m *MemoryStore) GetTruck(ctx context.Context, carrierID, truckID string) (*models.Truck, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	t, exists := m.trucks[truckID]
	if !exists || t.CarrierID != carrierID || t.Deleted {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryStore) ListTrucks(ctx context.Context, carrierID string) ([]models.Truck, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	var out []models.Truck
	for _, t := range m.trucks {
		if t.CarrierID == carrierID && !t.Deleted {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateTruck(ctx context.Context, truck *models.Truck) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()

	existing, exists := m.trucks[truck.ID]
	if !exists || existing.CarrierID != truck.CarrierID || existing.Deleted {
		return ErrNotFound
	}
	cp := *truck
	m.trucks[truck.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteTruck(ctx context.Context, carrierID, truckID string) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()

	t, exists := m.trucks[truckID]
	if !exists || t.CarrierID != carrierID || t.Deleted {
		return ErrNotFound
	}
	t.Deleted = true
	return nil
}

// Trailer operations

func (m *MemoryStore) CreateTrailer(ctx context.Context, trailer *models.Trailer) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()
	m.trailers[trailer.ID] = trailer
	return nil
}

func (m *MemoryStore) GetTrailer(ctx context.Context, carrierID, trailerID string) (*models.Trailer, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	t, exists := m.trailers[trailerID]
	if !exists || t.CarrierID != carrierID || t.Deleted {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryStore) ListTrailers(ctx context.Context, carrierID string) ([]models.Trailer, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	var out []models.Trailer
	for _, t := range m.trailers {
		if t.CarrierID == carrierID && !t.Deleted {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateTrailer(ctx context.Context, trailer *models.Trailer) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()

	existing, exists := m.trailers[trailer.ID]
	if !exists || existing.CarrierID != trailer.CarrierID || existing.Deleted {
		return ErrNotFound
	}
	cp := *trailer
	m.trailers[trailer.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteTrailer(ctx context.Context, carrierID, trailerID string) error {
	m.entityMu.Lock()
	defer m.entityMu.Unlock()

	t, exists := m.trailers[trailerID]
	if !exists || t.CarrierID != carrierID || t.Deleted {
		return ErrNotFound
	}
	t.Deleted = true
	return nil
}

// ResolveNames maps ids to display names for one entity kind.
func (m *MemoryStore) ResolveNames(ctx context.Context, carrierID string, kind models.EntityKind, ids []string) (map[string]string, error) {
	m.entityMu.RLock()
	defer m.entityMu.RUnlock()

	out := make(map[string]string, len(ids))
	for _, id := range ids {
		switch kind {
		case models.KindBroker:
			if b, ok := m.brokers[id]; ok && b.CarrierID == carrierID && !b.Deleted {
				out[id] = b.DisplayName()
			}
		case models.KindDriver:
			if u, ok := m.users[id]; ok && u.CarrierID == carrierID && !u.Deleted && u.Role == models.RoleDriver {
				out[id] = u.DisplayName()
			}
		case models.KindDispatcher:
			if u, ok := m.users[id]; ok && u.CarrierID == carrierID && !u.Deleted && u.Role == models.RoleDispatcher {
				out[id] = u.DisplayName()
			}
		case models.KindTruck:
			if t, ok := m.trucks[id]; ok && t.CarrierID == carrierID && !t.Deleted {
				out[id] = t.DisplayName()
			}
		case models.KindTrailer:
			if t, ok := m.trailers[id]; ok && t.CarrierID == carrierID && !t.Deleted {
				out[id] = t.DisplayName()
			}
		}
	}
	return out, nil
}
