package services

import (
	"sort"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// topN is the length of every ranking list.
const topN = 5

// Aggregate computes the dashboard aggregates over a complete filtered trip
// set. It is a pure function: callers must hand it every matching record,
// never a single page, and it never resolves entity names — rankings carry
// ids only.
//
// Totals are order-independent. Ranking tie-breaks are first-seen-wins under
// the input order, so a fixed input order gives a stable result.
func Aggregate(trips []models.Trip) *models.AggregateResult {
	result := &models.AggregateResult{
		StatusSummary: make(map[models.TripStatus]int, len(models.AllTripStatuses)),
	}
	for _, s := range models.AllTripStatuses {
		result.StatusSummary[s] = 0
	}

	brokers := newGrouping()
	dispatchers := newGrouping()
	drivers := newGrouping()
	trucks := newGrouping()

	for i := range trips {
		t := &trips[i]
		if _, ok := result.StatusSummary[t.Status]; ok {
			result.StatusSummary[t.Status]++
		}

		p := &result.PaymentSummary
		p.TotalBrokerPayments += t.BrokerPayment
		p.TotalDriverPayments += t.DriverPayment
		p.TotalTruckPayments += t.TruckPayment
		p.TotalDispatcherPayments += t.DispatcherPayment
		p.TotalFuelCosts += t.FuelExpense()
		p.TotalLumperFees += t.LumperFee
		p.TotalDetentionFees += t.DetentionFee

		// Primary ranking metrics: revenue for brokers, profit for
		// dispatchers, trip count for drivers and trucks.
		brokers.add(t.BrokerID, t.BrokerPayment, t.Profit())
		dispatchers.add(t.DispatcherID, t.Profit(), t.BrokerPayment)
		drivers.add(t.DriverID, 1, t.DriverPayment)
		trucks.add(t.TruckID, 1, t.TruckPayment)
	}

	p := &result.PaymentSummary
	p.TotalExpenses = p.TotalDriverPayments + p.TotalTruckPayments +
		p.TotalDispatcherPayments + p.TotalFuelCosts +
		p.TotalLumperFees + p.TotalDetentionFees
	p.Profit = p.TotalBrokerPayments - p.TotalExpenses

	result.TopBrokers = brokers.top(topN)
	result.TopDispatchers = dispatchers.top(topN)
	result.TopDrivers = drivers.top(topN)
	result.TopTrucks = trucks.top(topN)
	return result
}

// grouping accumulates per-id metrics, remembering first-seen order so that
// ties rank deterministically.
type grouping struct {
	byID  map[string]*models.RankedEntity
	order []string
}

func newGrouping() *grouping {
	return &grouping{byID: make(map[string]*models.RankedEntity)}
}

func (g *grouping) add(id string, primary, secondary float64) {
	if id == "" {
		return
	}
	e, ok := g.byID[id]
	if !ok {
		e = &models.RankedEntity{ID: id}
		g.byID[id] = e
		g.order = append(g.order, id)
	}
	e.Primary += primary
	e.Secondary += secondary
	e.TripCount++
}

// top returns the n highest entries by primary metric, descending. The sort
// is stable over first-seen order, so the first id to reach a tied value
// wins.
func (g *grouping) top(n int) []models.RankedEntity {
	ranked := make([]models.RankedEntity, 0, len(g.order))
	for _, id := range g.order {
		ranked = append(ranked, *g.byID[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Primary > ranked[j].Primary
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
