package models

// Update inputs list exactly the fields a client may change, one variant per
// entity kind. A nil pointer means "leave unchanged". Ids, carrier ownership
// and timestamps are never client-writable.

// TripUpdate covers the mutable fields of a trip. Status is not here: status
// advances go through the dedicated transition endpoint.
type TripUpdate struct {
	Origin      *string `json:"origin,omitempty"`
	Destination *string `json:"destination,omitempty"`

	BrokerID     *string `json:"brokerId,omitempty"`
	DispatcherID *string `json:"dispatcherId,omitempty"`
	DriverID     *string `json:"driverId,omitempty"`
	TruckID      *string `json:"truckId,omitempty"`
	TrailerID    *string `json:"trailerId,omitempty"`

	BrokerPayment     *float64 `json:"brokerPayment,omitempty"`
	DriverPayment     *float64 `json:"driverPayment,omitempty"`
	TruckPayment      *float64 `json:"truckPayment,omitempty"`
	DispatcherPayment *float64 `json:"dispatcherPayment,omitempty"`
	LumperFee         *float64 `json:"lumperFee,omitempty"`
	DetentionFee      *float64 `json:"detentionFee,omitempty"`
	FuelCost          *float64 `json:"fuelCost,omitempty"`
	AvgFuelPrice      *float64 `json:"avgFuelPrice,omitempty"`
	GallonsPerMile    *float64 `json:"gallonsPerMile,omitempty"`
	TotalMiles        *float64 `json:"totalMiles,omitempty"`
}

// Apply copies the set fields onto the trip.
func (u TripUpdate) Apply(t *Trip) {
	setStr(&t.Origin, u.Origin)
	setStr(&t.Destination, u.Destination)
	setStr(&t.BrokerID, u.BrokerID)
	setStr(&t.DispatcherID, u.DispatcherID)
	setStr(&t.DriverID, u.DriverID)
	setStr(&t.TruckID, u.TruckID)
	setStr(&t.TrailerID, u.TrailerID)
	setF64(&t.BrokerPayment, u.BrokerPayment)
	setF64(&t.DriverPayment, u.DriverPayment)
	setF64(&t.TruckPayment, u.TruckPayment)
	setF64(&t.DispatcherPayment, u.DispatcherPayment)
	setF64(&t.LumperFee, u.LumperFee)
	setF64(&t.DetentionFee, u.DetentionFee)
	setF64(&t.FuelCost, u.FuelCost)
	setF64(&t.AvgFuelPrice, u.AvgFuelPrice)
	setF64(&t.GallonsPerMile, u.GallonsPerMile)
	setF64(&t.TotalMiles, u.TotalMiles)
}

// BrokerUpdate covers the mutable fields of a broker.
type BrokerUpdate struct {
	Name     *string `json:"name,omitempty"`
	MCNumber *string `json:"mcNumber,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (u BrokerUpdate) Apply(b *Broker) {
	setStr(&b.Name, u.Name)
	setStr(&b.MCNumber, u.MCNumber)
	setStr(&b.Email, u.Email)
	setStr(&b.Phone, u.Phone)
}

// UserUpdate covers the mutable fields of a driver or dispatcher.
type UserUpdate struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	LicenseNo *string `json:"licenseNumber,omitempty"`
}

func (u UserUpdate) Apply(usr *User) {
	setStr(&usr.Name, u.Name)
	setStr(&usr.Phone, u.Phone)
	setStr(&usr.LicenseNo, u.LicenseNo)
}

// TruckUpdate covers the mutable fields of a truck.
type TruckUpdate struct {
	UnitNumber *string `json:"unitNumber,omitempty"`
	Make       *string `json:"make,omitempty"`
	ModelName  *string `json:"model,omitempty"`
}

func (u TruckUpdate) Apply(t *Truck) {
	setStr(&t.UnitNumber, u.UnitNumber)
	setStr(&t.Make, u.Make)
	setStr(&t.ModelName, u.ModelName)
}

// TrailerUpdate covers the mutable fields of a trailer.
type TrailerUpdate struct {
	UnitNumber *string `json:"unitNumber,omitempty"`
	Type       *string `json:"type,omitempty"`
}

func (u TrailerUpdate) Apply(t *Trailer) {
	setStr(&t.UnitNumber, u.UnitNumber)
	setStr(&t.Type, u.Type)
}

func setStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setF64(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
