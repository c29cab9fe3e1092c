package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// DashboardService combines the paged query with whole-dataset aggregation.
//
// Aggregates are computed only when the request carries no continuation
// token, i.e. the first page of a filter set: they don't change as the user
// pages through the same set, so recomputing per page would be wasted work.
// Clients retain the page-0 aggregates for the lifetime of the filter set.
type DashboardService struct {
	queries *TripQueryService
	log     *logrus.Entry

	// Budgets for the whole-dataset fetch behind aggregation. When either
	// is exceeded the page is still served, just without aggregates.
	maxAggregateRecords int
	aggregateTimeout    time.Duration
}

// NewDashboardService creates the orchestrator. maxRecords <= 0 disables the
// record budget; timeout <= 0 disables the time budget.
func NewDashboardService(queries *TripQueryService, maxRecords int, timeout time.Duration) *DashboardService {
	return &DashboardService{
		queries:             queries,
		log:                 logrus.WithField("component", "dashboard"),
		maxAggregateRecords: maxRecords,
		aggregateTimeout:    timeout,
	}
}

// GetTrips serves one page of the filtered set, no aggregates.
func (s *DashboardService) GetTrips(ctx context.Context, carrierID string, f models.TripFilter, token string) (*models.DashboardResponse, error) {
	trips, next, err := s.queries.Query(ctx, carrierID, f, token)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	return &models.DashboardResponse{Trips: trips, LastEvaluatedKey: next}, nil
}

// GetDashboard serves one page and, on the first page of a filter set,
// attaches aggregates computed over the complete filtered dataset.
// Aggregation is best-effort relative to paging: if the whole-dataset fetch
// fails or blows its budget, the page is returned without aggregates.
func (s *DashboardService) GetDashboard(ctx context.Context, carrierID string, f models.TripFilter, token string) (*models.DashboardResponse, error) {
	resp, err := s.GetTrips(ctx, carrierID, f, token)
	if err != nil {
		return nil, err
	}
	if token != "" {
		return resp, nil
	}

	aggCtx := ctx
	if s.aggregateTimeout > 0 {
		var cancel context.CancelFunc
		aggCtx, cancel = context.WithTimeout(ctx, s.aggregateTimeout)
		defer cancel()
	}

	all, err := s.queries.QueryAll(aggCtx, carrierID, f, s.maxAggregateRecords)
	if err != nil {
		// Degraded mode: the page is still good, the charts are not.
		s.log.WithFields(logrus.Fields{
			"carrierId": carrierID,
			"filter":    f.Fingerprint(),
		}).WithError(err).Warn("aggregation skipped, serving page without aggregates")
		return resp, nil
	}

	resp.ChartAggregates = Aggregate(all)
	return resp, nil
}
