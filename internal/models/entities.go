package models

import "time"

// EntityKind names a resolvable foreign-reference dimension on a trip.
type EntityKind string

const (
	KindBroker     EntityKind = "broker"
	KindDriver     EntityKind = "driver"
	KindDispatcher EntityKind = "dispatcher"
	KindTruck      EntityKind = "truck"
	KindTrailer    EntityKind = "trailer"
)

// AllEntityKinds lists every resolvable dimension.
var AllEntityKinds = []EntityKind{KindBroker, KindDriver, KindDispatcher, KindTruck, KindTrailer}

func (k EntityKind) Valid() bool {
	for _, v := range AllEntityKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Broker is a freight broker the carrier hauls for.
type Broker struct {
	ID        string    `json:"brokerId" gorm:"primaryKey"`
	CarrierID string    `json:"carrierId" gorm:"index"`
	Name      string    `json:"name"`
	MCNumber  string    `json:"mcNumber,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRole separates drivers from dispatchers inside the users table.
type UserRole string

const (
	RoleDriver     UserRole = "driver"
	RoleDispatcher UserRole = "dispatcher"
)

// User is a carrier employee: a driver or a dispatcher.
type User struct {
	ID        string    `json:"userId" gorm:"primaryKey"`
	CarrierID string    `json:"carrierId" gorm:"index"`
	Role      UserRole  `json:"role"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	LicenseNo string    `json:"licenseNumber,omitempty"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Truck is a power unit.
type Truck struct {
	ID         string    `json:"truckId" gorm:"primaryKey"`
	CarrierID  string    `json:"carrierId" gorm:"index"`
	UnitNumber string    `json:"unitNumber"`
	Make       string    `json:"make,omitempty"`
	ModelName  string    `json:"model,omitempty"`
	Deleted    bool      `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Trailer is towed equipment.
type Trailer struct {
	ID         string    `json:"trailerId" gorm:"primaryKey"`
	CarrierID  string    `json:"carrierId" gorm:"index"`
	UnitNumber string    `json:"unitNumber"`
	Type       string    `json:"type,omitempty"`
	Deleted    bool      `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Display names feed the batch resolve endpoint.

func (b *Broker) DisplayName() string  { return b.Name }
func (u *User) DisplayName() string    { return u.Name }
func (t *Truck) DisplayName() string   { return t.UnitNumber }
func (t *Trailer) DisplayName() string { return t.UnitNumber }
