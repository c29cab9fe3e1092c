package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/haulhub-io/haulhub-backend/internal/models"
	"github.com/haulhub-io/haulhub-backend/internal/storage"
)

// ErrAggregationBudget is returned when a whole-dataset fetch exceeds the
// configured record budget. The orchestrator degrades to a page without
// aggregates instead of failing the request.
var ErrAggregationBudget = errors.New("aggregation record budget exceeded")

// TripQueryService translates a TripFilter into one or more store queries.
// A filter whose status expands to several values fans out into one stream
// per value; the streams are drained in declaration order and concatenated,
// so ordering across streams is store order, not chronological. The merged
// progress is carried in a single opaque cursor.
type TripQueryService struct {
	store storage.Store
}

// NewTripQueryService creates a new query service.
func NewTripQueryService(store storage.Store) *TripQueryService {
	return &TripQueryService{store: store}
}

// mergedCursor wraps a store token with the index of the stream it belongs
// to. Serialized form is opaque to clients, like the store tokens it wraps.
type mergedCursor struct {
	Stream int    `json:"s"`
	Token  string `json:"t"`
}

func encodeCursor(c mergedCursor) string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (mergedCursor, error) {
	var c mergedCursor
	if token == "" {
		return c, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, storage.ErrBadToken
	}
	if err := json.Unmarshal(raw, &c); err != nil || c.Stream < 0 {
		return c, storage.ErrBadToken
	}
	return c, nil
}

// streams expands the filter into per-status store queries. A filter with no
// status predicate is a single unrestricted stream.
func streams(f models.TripFilter) []storage.TripQuery {
	base := storage.TripQuery{
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
		BrokerID:     f.BrokerID,
		DispatcherID: f.DispatcherID,
		DriverID:     f.DriverID,
		TruckID:      f.TruckID,
	}
	statuses := f.StatusValues()
	if len(statuses) == 0 {
		return []storage.TripQuery{base}
	}
	out := make([]storage.TripQuery, len(statuses))
	for i, s := range statuses {
		q := base
		q.Status = s
		out[i] = q
	}
	return out
}

// Query fetches one page of the filtered set. The returned token, when
// present, must be echoed back to continue; a short page with a token means
// sparse matches, not end of data.
func (s *TripQueryService) Query(ctx context.Context, carrierID string, f models.TripFilter, token string) ([]models.Trip, string, error) {
	qs := streams(f)

	cur, err := decodeCursor(token)
	if err != nil {
		return nil, "", err
	}
	if cur.Stream >= len(qs) {
		return nil, "", storage.ErrBadToken
	}

	trips, inner, err := s.store.QueryTrips(ctx, carrierID, qs[cur.Stream], cur.Token, f.Limit())
	if err != nil {
		return nil, "", err
	}

	switch {
	case inner != "":
		return trips, encodeCursor(mergedCursor{Stream: cur.Stream, Token: inner}), nil
	case cur.Stream+1 < len(qs):
		// Current stream exhausted, more streams remain.
		return trips, encodeCursor(mergedCursor{Stream: cur.Stream + 1}), nil
	default:
		return trips, "", nil
	}
}

// QueryAll fetches the complete filtered set for aggregation. Streams run
// concurrently; a failure in any one fails the whole call, and crossing
// maxRecords returns ErrAggregationBudget. Results keep stream declaration
// order, store order within a stream.
func (s *TripQueryService) QueryAll(ctx context.Context, carrierID string, f models.TripFilter, maxRecords int) ([]models.Trip, error) {
	qs := streams(f)
	results := make([][]models.Trip, len(qs))

	var mu sync.Mutex
	total := 0

	g, ctx := errgroup.WithContext(ctx)
	for i, q := range qs {
		i, q := i, q
		g.Go(func() error {
			var collected []models.Trip
			token := ""
			for {
				trips, next, err := s.store.QueryTrips(ctx, carrierID, q, token, models.MaxPageSize)
				if err != nil {
					return fmt.Errorf("stream %d: %w", i, err)
				}
				collected = append(collected, trips...)

				mu.Lock()
				total += len(trips)
				over := maxRecords > 0 && total > maxRecords
				mu.Unlock()
				if over {
					return ErrAggregationBudget
				}

				if next == "" {
					break
				}
				token = next
			}
			results[i] = collected
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Trip
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
