package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPageSize is used when a filter does not specify one.
const DefaultPageSize = 25

// MaxPageSize caps what a single request may ask for.
const MaxPageSize = 200

// TripFilter is the immutable filter specification for dashboard queries.
// Two filters that are Fingerprint-equal select the same dataset, so cached
// aggregates computed for one are valid for the other.
type TripFilter struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// Status is a canonical status value or the pending_settlement alias.
	Status string `json:"status,omitempty"`

	BrokerID     string `json:"brokerId,omitempty"`
	DispatcherID string `json:"dispatcherId,omitempty"`
	DriverID     string `json:"driverId,omitempty"`
	TruckID      string `json:"truckId,omitempty"`

	PageSize int `json:"pageSize,omitempty"`
}

// Validate rejects bad filter combinations before any store access.
func (f TripFilter) Validate() error {
	if f.Status != "" && f.Status != StatusPendingSettlement && !TripStatus(f.Status).Valid() {
		return fmt.Errorf("invalid status %q", f.Status)
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return fmt.Errorf("endDate is before startDate")
	}
	if f.PageSize < 0 || f.PageSize > MaxPageSize {
		return fmt.Errorf("pageSize must be between 0 and %d", MaxPageSize)
	}
	return nil
}

// StatusValues expands the status field into the underlying store statuses.
// An empty status means no status predicate and yields a nil slice; the
// pending_settlement alias fans out into two streams.
func (f TripFilter) StatusValues() []TripStatus {
	switch f.Status {
	case "":
		return nil
	case StatusPendingSettlement:
		return []TripStatus{TripWaitingOnPaperwork, TripReadyToPay}
	default:
		return []TripStatus{TripStatus(f.Status)}
	}
}

// Limit returns the effective page size.
func (f TripFilter) Limit() int {
	if f.PageSize <= 0 {
		return DefaultPageSize
	}
	return f.PageSize
}

// Fingerprint is a stable structural key over the filter fields, ignoring
// pagination. Used to decide whether cached aggregates may be reused.
func (f TripFilter) Fingerprint() string {
	var b strings.Builder
	if f.StartDate != nil {
		b.WriteString(f.StartDate.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	if f.EndDate != nil {
		b.WriteString(f.EndDate.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "|%s|%s|%s|%s|%s", f.Status, f.BrokerID, f.DispatcherID, f.DriverID, f.TruckID)
	return b.String()
}
