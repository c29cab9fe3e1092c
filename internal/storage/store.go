package storage

import (
	"context"
	"errors"
	"time"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("record not found")

// TripQuery is a single-stream predicate set against the trips partition of
// one carrier. At most one status value: callers that need an OR over
// statuses issue one query per value and merge.
type TripQuery struct {
	Status       models.TripStatus // empty = no status predicate
	StartDate    *time.Time        // inclusive, against ScheduledAt
	EndDate      *time.Time        // inclusive, against ScheduledAt
	BrokerID     string
	DispatcherID string
	DriverID     string
	TruckID      string
}

// Store is the partitioned record store capability the engine consumes.
//
// QueryTrips is a filtered scan with an opaque continuation token. The store
// may return fewer records than limit even when more data remains; the
// presence of a next token, not the page length, signals continuation.
type Store interface {
	// Trip operations
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, carrierID, tripID string) (*models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	QueryTrips(ctx context.Context, carrierID string, q TripQuery, token string, limit int) ([]models.Trip, string, error)

	// Broker operations
	CreateBroker(ctx context.Context, broker *models.Broker) error
	GetBroker(ctx context.Context, carrierID, brokerID string) (*models.Broker, error)
	ListBrokers(ctx context.Context, carrierID string) ([]models.Broker, error)
	UpdateBroker(ctx context.Context, broker *models.Broker) error
	DeleteBroker(ctx context.Context, carrierID, brokerID string) error

	// User operations (drivers and dispatchers)
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, carrierID, userID string) (*models.User, error)
	ListUsers(ctx context.Context, carrierID string, role models.UserRole) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, carrierID, userID string) error

	// Truck operations
	CreateTruck(ctx context.Context, truck *models.Truck) error
	GetTruck(ctx context.Context, carrierID, truckID string) (*models.Truck, error)
	ListTrucks(ctx context.Context, carrierID string) ([]models.Truck, error)
	UpdateTruck(ctx context.Context, truck *models.Truck) error
	DeleteTruck(ctx context.Context, carrierID, truckID string) error

	// Trailer operations
	CreateTrailer(ctx context.Context, trailer *models.Trailer) error
	GetTrailer(ctx context.Context, carrierID, trailerID string) (*models.Trailer, error)
	ListTrailers(ctx context.Context, carrierID string) ([]models.Trailer, error)
	UpdateTrailer(ctx context.Context, trailer *models.Trailer) error
	DeleteTrailer(ctx context.Context, carrierID, trailerID string) error

	// ResolveNames maps ids of one kind to display names. Ids with no
	// backing record (or soft-deleted ones) are absent from the result.
	ResolveNames(ctx context.Context, carrierID string, kind models.EntityKind, ids []string) (map[string]string, error)
}
