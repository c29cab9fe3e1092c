// Package client implements the browser-side half of the dashboard:
// pagination state, the name-resolution cache, the short-TTL response cache
// and the debounced fetch loop. It runs single-threaded inside one
// dispatcher goroutine; mutexes guard only incidental cross-goroutine reads.
package client

import (
	"errors"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// ErrPageUnreachable is returned when a page is requested whose continuation
// token has not been recorded yet. Pages must be visited in order the first
// time.
var ErrPageUnreachable = errors.New("no continuation token recorded for page")

// PaginationState is the observable state of the manager. PageTokens[i]
// holds the token required to fetch page i+1.
type PaginationState struct {
	Page       int
	PageSize   int
	PageTokens []string
}

// PaginationManager owns the page index, page size and the ordered token
// ledger for one filter set. Changing the filter or the page size resets
// everything: tokens recorded under the old parameters are meaningless.
type PaginationManager struct {
	filterKey string
	state     PaginationState

	lastPageLen int
	lastNext    string
	sawLastPage bool
}

// NewPaginationManager creates a manager with the given page size.
func NewPaginationManager(pageSize int) *PaginationManager {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return &PaginationManager{state: PaginationState{PageSize: pageSize}}
}

// State returns a copy of the current state.
func (m *PaginationManager) State() PaginationState {
	s := m.state
	s.PageTokens = append([]string(nil), m.state.PageTokens...)
	return s
}

// SetFilter records a filter change. A fingerprint-equal filter is a no-op;
// anything else resets the token ledger and the page index.
func (m *PaginationManager) SetFilter(f models.TripFilter) {
	key := f.Fingerprint()
	if key == m.filterKey {
		return
	}
	m.filterKey = key
	m.reset()
}

// SetPageSize changes the page size. Tokens were computed under the old
// size, so any change resets the ledger too.
func (m *PaginationManager) SetPageSize(size int) {
	if size <= 0 || size == m.state.PageSize {
		return
	}
	m.state.PageSize = size
	m.reset()
}

func (m *PaginationManager) reset() {
	m.state.Page = 0
	m.state.PageTokens = nil
	m.lastPageLen = 0
	m.lastNext = ""
	m.sawLastPage = false
}

// GoToPage moves to a page and returns the continuation token to send for
// it. Page 0 needs no token; page n needs the token recorded when page n-1
// was fetched. Moving backward replays the stored token instead of
// refetching from page 0.
func (m *PaginationManager) GoToPage(page int) (string, error) {
	if page < 0 {
		return "", ErrPageUnreachable
	}
	if page == 0 {
		m.state.Page = 0
		return "", nil
	}
	if page > len(m.state.PageTokens) {
		return "", ErrPageUnreachable
	}
	m.state.Page = page
	return m.state.PageTokens[page-1], nil
}

// TokenForCurrentPage returns the token the current page was reached with.
func (m *PaginationManager) TokenForCurrentPage() string {
	if m.state.Page == 0 {
		return ""
	}
	return m.state.PageTokens[m.state.Page-1]
}

// RecordPage stores the outcome of fetching the current page: the token
// needed to reach the next page (if any) and the page length for the total
// estimate.
func (m *PaginationManager) RecordPage(pageLen int, nextToken string) {
	m.lastPageLen = pageLen
	m.lastNext = nextToken
	m.sawLastPage = nextToken == ""

	if nextToken == "" {
		return
	}
	if m.state.Page < len(m.state.PageTokens) {
		m.state.PageTokens[m.state.Page] = nextToken
		return
	}
	m.state.PageTokens = append(m.state.PageTokens, nextToken)
}

// HasNext reports whether a next page is known to exist.
func (m *PaginationManager) HasNext() bool {
	return m.lastNext != ""
}

// EstimatedTotal returns the running total estimate and whether it is exact.
// The store does not report totals cheaply, so this is
// page*size + currentPageLength, plus one when a continuation token exists —
// a lower bound, not a count. It becomes exact only once a page arrives
// without a token.
func (m *PaginationManager) EstimatedTotal() (total int, exact bool) {
	total = m.state.Page*m.state.PageSize + m.lastPageLen
	if m.lastNext != "" {
		total++
	}
	return total, m.sawLastPage
}
