package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

func TestPaginationTokenLedger(t *testing.T) {
	m := NewPaginationManager(10)
	m.SetFilter(models.TripFilter{Status: string(models.TripDelivered)})

	token, err := m.GoToPage(0)
	require.NoError(t, err)
	assert.Empty(t, token)

	m.RecordPage(10, "tok-1")
	token, err = m.GoToPage(1)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	m.RecordPage(10, "tok-2")
	token, err = m.GoToPage(2)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	// Backward navigation replays the stored token, no refetch from zero.
	token, err = m.GoToPage(1)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	// A page with no recorded boundary is unreachable.
	_, err = m.GoToPage(5)
	assert.ErrorIs(t, err, ErrPageUnreachable)
}

func TestPaginationPageSizeChangeResetsEverything(t *testing.T) {
	m := NewPaginationManager(10)
	m.SetFilter(models.TripFilter{})
	m.RecordPage(10, "tok-1")
	_, err := m.GoToPage(1)
	require.NoError(t, err)

	m.SetPageSize(25)

	state := m.State()
	assert.Equal(t, 0, state.Page)
	assert.Empty(t, state.PageTokens)
	assert.Equal(t, 25, state.PageSize)
}

func TestPaginationFilterChangeResetsButEqualFilterDoesNot(t *testing.T) {
	m := NewPaginationManager(10)
	f := models.TripFilter{BrokerID: "broker-001"}
	m.SetFilter(f)
	m.RecordPage(10, "tok-1")

	// Fingerprint-equal filter: tokens survive. Page size is pagination,
	// not filter identity.
	same := f
	same.PageSize = 10
	m.SetFilter(same)
	assert.Len(t, m.State().PageTokens, 1)

	m.SetFilter(models.TripFilter{BrokerID: "broker-002"})
	state := m.State()
	assert.Equal(t, 0, state.Page)
	assert.Empty(t, state.PageTokens)
}

func TestPaginationTotalEstimateScenario(t *testing.T) {
	m := NewPaginationManager(10)
	m.SetFilter(models.TripFilter{})

	// Page 0: 10 records plus a continuation token — at least 11 exist.
	m.RecordPage(10, "tok-1")
	total, exact := m.EstimatedTotal()
	assert.GreaterOrEqual(t, total, 11)
	assert.False(t, exact)

	// Page 1: 4 records, no token — the total is now exact.
	_, err := m.GoToPage(1)
	require.NoError(t, err)
	m.RecordPage(4, "")
	total, exact = m.EstimatedTotal()
	assert.Equal(t, 14, total)
	assert.True(t, exact)
}

func TestPaginationRecordPageOverwritesOnRevisit(t *testing.T) {
	m := NewPaginationManager(10)
	m.SetFilter(models.TripFilter{})
	m.RecordPage(10, "tok-1")

	// Revisiting page 0 after invalidation re-records the same boundary
	// slot instead of appending.
	m.RecordPage(10, "tok-1b")
	state := m.State()
	require.Len(t, state.PageTokens, 1)
	assert.Equal(t, "tok-1b", state.PageTokens[0])
}
