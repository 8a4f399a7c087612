package sale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStatusAt(t *testing.T) {
	s := Sale{StartDate: date(2024, 1, 10), EndDate: date(2024, 2, 9)}

	assert.Equal(t, StatusFuture, s.StatusAt(date(2024, 1, 9)))
	assert.Equal(t, StatusActive, s.StatusAt(date(2024, 1, 10)))
	assert.Equal(t, StatusActive, s.StatusAt(time.Date(2024, 2, 9, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, StatusExpired, s.StatusAt(date(2024, 2, 10)))
}

func TestRemainingVisits(t *testing.T) {
	assert.Nil(t, Sale{MaxVisits: 0, VisitCount: 7}.RemainingVisits())

	r := Sale{MaxVisits: 5, VisitCount: 2}.RemainingVisits()
	require.NotNil(t, r)
	assert.Equal(t, 3, *r)

	r = Sale{MaxVisits: 3, VisitCount: 4}.RemainingVisits()
	require.NotNil(t, r)
	assert.Equal(t, 0, *r)
}

func TestMaxVisitsBelowUsageError(t *testing.T) {
	var err error = &MaxVisitsBelowUsageError{MaxVisits: 2, VisitCount: 3}
	assert.ErrorIs(t, err, ErrMaxVisitsBelowUsage)
	assert.Equal(t, "cannot set limit 2: 3 visits already used", err.Error())
}

func TestCreateSaleRequestValidate(t *testing.T) {
	bad := "01/01/2024"
	req := CreateSaleRequest{ClientID: "nope", MaxVisits: -1, StartDate: &bad}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
	assert.Contains(t, err.Error(), "service_id")
	assert.Contains(t, err.Error(), "max_visits")
	assert.Contains(t, err.Error(), "start_date")

	start := "2024-01-01"
	req = CreateSaleRequest{
		ClientID:  "0190a5e4-1c2b-7d3e-8f40-123456789abc",
		ServiceID: "0190a5e4-1c2b-7d3e-8f40-123456789abd",
		StartDate: &start,
	}
	require.NoError(t, req.Validate())
	require.NotNil(t, req.ParsedStartDate)
	assert.Equal(t, date(2024, 1, 1), *req.ParsedStartDate)
}
