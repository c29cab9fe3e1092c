package client

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// DefaultFetchDebounce is the quiet period after the last filter/pagination
// event before a fetch is issued, so rapid UI interactions coalesce into one
// request.
const DefaultFetchDebounce = 200 * time.Millisecond

// Fetcher is the network half of the dashboard client.
type Fetcher interface {
	FetchDashboard(ctx context.Context, f models.TripFilter, token string) (*models.DashboardResponse, error)
}

// View is one applied dashboard state, delivered after a fetch (or cache
// hit) survives supersession. Aggregates are the retained page-0 aggregates
// of the current filter set and may be nil in degraded mode.
type View struct {
	Filter         models.TripFilter
	Page           int
	Trips          []models.Trip
	Aggregates     *models.AggregateResult
	EstimatedTotal int
	TotalExact     bool
	Err            error
}

type eventKind int

const (
	evFilter eventKind = iota
	evPage
	evPageSize
)

type event struct {
	kind     eventKind
	filter   models.TripFilter
	page     int
	pageSize int
}

type fetchResult struct {
	seq    uint64
	filter models.TripFilter
	page   int
	resp   *models.DashboardResponse
	err    error
}

// DashboardClient is the single-threaded event loop driving the dashboard.
// Filter and pagination changes are merged and debounced; a fetch in flight
// when a newer event fires is superseded — its result is discarded at apply
// time rather than cancelled on the wire.
type DashboardClient struct {
	fetcher    Fetcher
	Pagination *PaginationManager
	Responses  *ResponseCache
	Names      *NameCache

	events   chan event
	views    chan View
	debounce time.Duration
	log      *logrus.Entry
}

// NewDashboardClient wires the client-side caches around a fetcher.
func NewDashboardClient(fetcher Fetcher, resolver Resolver, pageSize int) *DashboardClient {
	return &DashboardClient{
		fetcher:    fetcher,
		Pagination: NewPaginationManager(pageSize),
		Responses:  NewResponseCache(),
		Names:      NewNameCache(resolver),
		events:     make(chan event, 16),
		views:      make(chan View, 1),
		debounce:   DefaultFetchDebounce,
		log:        logrus.WithField("component", "dashboard-client"),
	}
}

// Views delivers applied dashboard states. Only the most recent view is
// retained if the consumer falls behind.
func (c *DashboardClient) Views() <-chan View { return c.views }

// SetFilter queues a filter change.
func (c *DashboardClient) SetFilter(f models.TripFilter) {
	c.events <- event{kind: evFilter, filter: f}
}

// SetPage queues a page change within the current filter set.
func (c *DashboardClient) SetPage(page int) {
	c.events <- event{kind: evPage, page: page}
}

// SetPageSize queues a page-size change.
func (c *DashboardClient) SetPageSize(size int) {
	c.events <- event{kind: evPageSize, pageSize: size}
}

// NotifyTripMutated must be called after any successful trip write. A single
// mutation can change status counts and rankings everywhere, so the whole
// response cache goes.
func (c *DashboardClient) NotifyTripMutated() {
	c.Responses.InvalidateAll()
}

// Run services events until the context is done. It is the single thread of
// the client: all state transitions happen here.
func (c *DashboardClient) Run(ctx context.Context) {
	var (
		filter     models.TripFilter
		targetPage int
		aggregates *models.AggregateResult
		seq        uint64
	)
	results := make(chan fetchResult, 1)

	timer := time.NewTimer(c.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-c.events:
			switch ev.kind {
			case evFilter:
				filter = ev.filter
				c.Pagination.SetFilter(ev.filter)
				if ev.filter.PageSize > 0 {
					c.Pagination.SetPageSize(ev.filter.PageSize)
				}
				targetPage = 0
				aggregates = nil
			case evPage:
				targetPage = ev.page
			case evPageSize:
				c.Pagination.SetPageSize(ev.pageSize)
				filter.PageSize = ev.pageSize
				targetPage = 0
				aggregates = nil
			}
			// Restart the quiet period; consecutive events coalesce.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(c.debounce)

		case <-timer.C:
			token, err := c.Pagination.GoToPage(targetPage)
			if err != nil {
				// Unreachable page (no token recorded); fall back to 0.
				targetPage = 0
				token, _ = c.Pagination.GoToPage(0)
			}

			if resp, ok := c.Responses.Get(filter, targetPage, filter.Limit()); ok {
				// A cache hit supersedes any fetch still in flight; its
				// result must not land on top of this view.
				seq++
				c.apply(ctx, filter, targetPage, resp, &aggregates)
				continue
			}

			seq++
			go func(seq uint64, f models.TripFilter, page int, token string) {
				resp, err := c.fetcher.FetchDashboard(ctx, f, token)
				select {
				case results <- fetchResult{seq: seq, filter: f, page: page, resp: resp, err: err}:
				case <-ctx.Done():
				}
			}(seq, filter, targetPage, token)

		case r := <-results:
			if r.seq != seq {
				// A newer request went out while this one was in flight.
				continue
			}
			if r.err != nil {
				c.log.WithError(r.err).Warn("dashboard fetch failed")
				c.emit(View{Filter: r.filter, Page: r.page, Err: r.err})
				continue
			}
			c.Responses.Set(r.filter, r.page, r.filter.Limit(), r.resp)
			c.apply(ctx, r.filter, r.page, r.resp, &aggregates)
		}
	}
}

func (c *DashboardClient) apply(ctx context.Context, f models.TripFilter, page int, resp *models.DashboardResponse, aggregates **models.AggregateResult) {
	c.Pagination.RecordPage(len(resp.Trips), resp.LastEvaluatedKey)
	if resp.ChartAggregates != nil {
		*aggregates = resp.ChartAggregates
	}

	total, exact := c.Pagination.EstimatedTotal()
	c.emit(View{
		Filter:         f,
		Page:           page,
		Trips:          resp.Trips,
		Aggregates:     *aggregates,
		EstimatedTotal: total,
		TotalExact:     exact,
	})

	// Name resolution never blocks the loop; the view renders placeholders
	// until names land.
	trips := resp.Trips
	go func() {
		_ = c.Names.ResolveTrips(ctx, trips)
	}()
}

func (c *DashboardClient) emit(v View) {
	for {
		select {
		case c.views <- v:
			return
		default:
			select {
			case <-c.views:
			default:
			}
		}
	}
}
