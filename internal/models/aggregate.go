package models

// PaymentSummary totals every money field over a filtered trip set.
// Profit = revenue − sum of expenses.
type PaymentSummary struct {
	TotalBrokerPayments     float64 `json:"totalBrokerPayments"`
	TotalDriverPayments     float64 `json:"totalDriverPayments"`
	TotalTruckPayments      float64 `json:"totalTruckPayments"`
	TotalDispatcherPayments float64 `json:"totalDispatcherPayments"`
	TotalFuelCosts          float64 `json:"totalFuelCosts"`
	TotalLumperFees         float64 `json:"totalLumperFees"`
	TotalDetentionFees      float64 `json:"totalDetentionFees"`
	TotalExpenses           float64 `json:"totalExpenses"`
	Profit                  float64 `json:"profit"`
}

// RankedEntity is one row of a top-N list. Names are deliberately absent:
// the client resolves ids for display, aggregation never does.
type RankedEntity struct {
	ID        string  `json:"id"`
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	TripCount int     `json:"tripCount"`
}

// AggregateResult is derived on demand over a complete filtered set and
// never persisted. StatusSummary carries every status value, zero-filled.
type AggregateResult struct {
	StatusSummary  map[TripStatus]int `json:"statusSummary"`
	PaymentSummary PaymentSummary     `json:"paymentSummary"`
	TopBrokers     []RankedEntity     `json:"topBrokers"`
	TopDispatchers []RankedEntity     `json:"topDispatchers"`
	TopDrivers     []RankedEntity     `json:"topDrivers"`
	TopTrucks      []RankedEntity     `json:"topTrucks"`
}
