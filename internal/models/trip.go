package models

import "time"

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripScheduled          TripStatus = "scheduled"
	TripPickedUp           TripStatus = "picked_up"
	TripInTransit          TripStatus = "in_transit"
	TripDelivered          TripStatus = "delivered"
	TripWaitingOnPaperwork TripStatus = "waiting_on_paperwork"
	TripReadyToPay         TripStatus = "ready_to_pay"
	TripPaid               TripStatus = "paid"
	TripCanceled           TripStatus = "canceled"
)

// AllTripStatuses lists every status in lifecycle order. Status summaries
// report a count for each of these, observed or not.
var AllTripStatuses = []TripStatus{
	TripScheduled,
	TripPickedUp,
	TripInTransit,
	TripDelivered,
	TripWaitingOnPaperwork,
	TripReadyToPay,
	TripPaid,
	TripCanceled,
}

// StatusPendingSettlement is a filter alias that expands to the two
// settlement-in-progress statuses and fans out into two store queries.
const StatusPendingSettlement = "pending_settlement"

func (s TripStatus) Valid() bool {
	for _, v := range AllTripStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status transitions are allowed.
func (s TripStatus) Terminal() bool {
	return s == TripPaid || s == TripCanceled
}

// CanTransitionTo validates a status advance. The lifecycle moves strictly
// forward; canceled is reachable from every non-terminal state.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == TripCanceled {
		return true
	}
	return statusRank(next) == statusRank(s)+1
}

func statusRank(s TripStatus) int {
	for i, v := range AllTripStatuses {
		if s == v {
			return i
		}
	}
	return -1
}

// Trip represents one shipment/order. Trips are created by a dispatch
// action, mutated as the status advances, and never hard-deleted (they are
// the financial audit trail).
type Trip struct {
	ID        string     `json:"tripId" gorm:"primaryKey"`
	CarrierID string     `json:"carrierId" gorm:"index:idx_trips_carrier_created,priority:1;index:idx_trips_carrier_status,priority:1"`
	Status    TripStatus `json:"status" gorm:"index:idx_trips_carrier_status,priority:2"`

	// Route and timing
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	PickedUpAt  *time.Time `json:"pickedUpAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	// Foreign references, all optional and never owned by the trip.
	BrokerID     string `json:"brokerId,omitempty"`
	DispatcherID string `json:"dispatcherId,omitempty"`
	DriverID     string `json:"driverId,omitempty"`
	TruckID      string `json:"truckId,omitempty"`
	TrailerID    string `json:"trailerId,omitempty"`

	// Denormalised for display only; aggregation works on ids.
	BrokerName string `json:"brokerName,omitempty"`

	// Money. Zero means "not recorded" and contributes 0 to arithmetic.
	BrokerPayment     float64 `json:"brokerPayment"`
	DriverPayment     float64 `json:"driverPayment"`
	TruckPayment      float64 `json:"truckPayment"`
	DispatcherPayment float64 `json:"dispatcherPayment"`
	LumperFee         float64 `json:"lumperFee"`
	DetentionFee      float64 `json:"detentionFee"`

	// Fuel: either a recorded cost or the inputs to derive one.
	FuelCost       float64 `json:"fuelCost"`
	AvgFuelPrice   float64 `json:"avgFuelPrice"`
	GallonsPerMile float64 `json:"gallonsPerMile"`
	TotalMiles     float64 `json:"totalMiles"`

	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_trips_carrier_created,priority:2"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FuelExpense returns the recorded fuel cost, or derives one from the
// per-mile inputs. Missing inputs contribute 0 rather than poisoning the
// arithmetic.
func (t *Trip) FuelExpense() float64 {
	if t.FuelCost > 0 {
		return t.FuelCost
	}
	if t.AvgFuelPrice > 0 && t.GallonsPerMile > 0 && t.TotalMiles > 0 {
		return t.AvgFuelPrice * t.GallonsPerMile * t.TotalMiles
	}
	return 0
}

// Expenses is the sum of every cost side of the trip.
func (t *Trip) Expenses() float64 {
	return t.DriverPayment + t.TruckPayment + t.DispatcherPayment +
		t.LumperFee + t.DetentionFee + t.FuelExpense()
}

// Profit is revenue minus all expenses.
func (t *Trip) Profit() float64 {
	return t.BrokerPayment - t.Expenses()
}
