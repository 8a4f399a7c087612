package visit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/domain/visit"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/metrics"
	"github.com/freedomdance/studio-backend/internal/repository/memory"
	alertservice "github.com/freedomdance/studio-backend/internal/service/alert"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 10, 18, 30, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	svc     visit.VisitService
	metrics *metrics.Metrics
	client  client.Client
	plan    plan.Plan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	store.Now = func() time.Time { return testNow }
	clock := dateutil.FixedClock(testNow)
	m := metrics.Discard()

	c, err := store.Clients().Create(ctx, client.Client{FirstName: "Anna", LastName: "Petrova", Phone: "+79990000001"})
	require.NoError(t, err)
	p, err := store.Plans().Create(ctx, plan.Plan{Name: "Monthly 3", Price: decimal.NewFromInt(60), DurationDays: 30})
	require.NoError(t, err)

	alerts := alertservice.NewAlertService(store.Alerts(), store.Sales(), nil, m, clock)
	svc := NewVisitService(store.Transactor(), store.Visits(), store.Sales(), alerts, m, clock)
	return &fixture{store: store, svc: svc, metrics: m, client: c, plan: p}
}

func (f *fixture) seedSale(t *testing.T, start, end string, maxVisits int) sale.Sale {
	t.Helper()
	startDate, err := dateutil.Parse(start)
	require.NoError(t, err)
	endDate, err := dateutil.Parse(end)
	require.NoError(t, err)

	s, err := f.store.Sales().Create(context.Background(), sale.Sale{
		ClientID:  f.client.ID,
		PlanID:    f.plan.ID,
		SaleDate:  startDate,
		StartDate: startDate,
		EndDate:   endDate,
		MaxVisits: maxVisits,
	})
	require.NoError(t, err)
	return s
}

func TestVisitService_Mark_CountsDown(t *testing.T) {
	f := newFixture(t)
	s := f.seedSale(t, "2024-01-01", "2024-01-31", 3)

	resp, err := f.svc.Mark(context.Background(), visit.MarkVisitRequest{SaleID: s.ID})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "Visit marked", resp.Message)
	assert.Equal(t, 1, resp.VisitCount)
	require.NotNil(t, resp.RemainingVisits)
	assert.Equal(t, 2, *resp.RemainingVisits)
	require.NotNil(t, resp.AlertData)
	assert.Equal(t, 1, resp.AlertData.UsedVisits)
	assert.Equal(t, alert.LevelWarning, resp.AlertData.AlertLevel)
}

func TestVisitService_Mark_AcceptsLegacyField(t *testing.T) {
	f := newFixture(t)
	s := f.seedSale(t, "2024-01-01", "2024-01-31", 0)

	resp, err := f.svc.Mark(context.Background(), visit.MarkVisitRequest{AbonnementSaleID: s.ID})
	require.NoError(t, err)
	assert.Nil(t, resp.RemainingVisits)
}

func TestVisitService_Mark_LimitExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.seedSale(t, "2024-01-01", "2024-01-31", 3)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Mark(ctx, visit.MarkVisitRequest{SaleID: s.ID})
		require.NoError(t, err)
	}

	_, err := f.svc.Mark(ctx, visit.MarkVisitRequest{SaleID: s.ID})

	require.ErrorIs(t, err, visit.ErrVisitLimitExhausted)
	var exhausted *visit.LimitExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 3, exhausted.VisitCount)
	assert.Equal(t, 3, f.store.Counts().Visits)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.VisitsRejected.WithLabelValues(metrics.ReasonLimitExhausted)))
}

func TestVisitService_Mark_ExpiredMembership(t *testing.T) {
	f := newFixture(t)
	s := f.seedSale(t, "2023-12-01", "2024-01-09", 0)

	_, err := f.svc.Mark(context.Background(), visit.MarkVisitRequest{SaleID: s.ID})

	assert.ErrorIs(t, err, visit.ErrMembershipExpired)
	assert.Equal(t, 0, f.store.Counts().Visits)
}

func TestVisitService_Mark_LastDayIsValid(t *testing.T) {
	f := newFixture(t)
	s := f.seedSale(t, "2023-12-11", "2024-01-10", 0)

	_, err := f.svc.Mark(context.Background(), visit.MarkVisitRequest{SaleID: s.ID})
	assert.NoError(t, err)
}

func TestVisitService_Mark_UnknownSale(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Mark(context.Background(), visit.MarkVisitRequest{SaleID: "0190a5b2-0000-7000-8000-000000000001"})
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
}

func TestVisitService_Mark_DeletedSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.seedSale(t, "2024-01-01", "2024-01-31", 0)
	require.NoError(t, f.store.Sales().SoftDelete(ctx, s.ID))

	_, err := f.svc.Mark(ctx, visit.MarkVisitRequest{SaleID: s.ID})
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
}

func TestVisitService_History_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.seedSale(t, "2024-01-01", "2024-01-31", 0)

	for _, d := range []time.Time{testNow.AddDate(0, 0, -5), testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, -3)} {
		_, err := f.store.Visits().Create(ctx, visit.Visit{SaleID: s.ID, VisitDate: d})
		require.NoError(t, err)
	}

	history, err := f.svc.History(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].VisitDate.After(history[1].VisitDate))
	assert.True(t, history[1].VisitDate.After(history[2].VisitDate))
}

func TestVisitService_UpdateDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.seedSale(t, "2024-01-01", "2024-01-31", 3)

	marked, err := f.svc.Mark(ctx, visit.MarkVisitRequest{SaleID: s.ID})
	require.NoError(t, err)

	resp, err := f.svc.UpdateDate(ctx, visit.UpdateVisitDateRequest{ID: marked.VisitID, VisitDate: "2024-01-05"})
	require.NoError(t, err)
	assert.Equal(t, "Visit date updated", resp.Message)
	assert.Equal(t, "2024-01-05", resp.NewDate)
	assert.Equal(t, testNow, resp.ModifiedAt)
	require.NotNil(t, resp.AlertData)
	assert.Equal(t, 1, resp.AlertData.UsedVisits)

	v, err := f.store.Visits().GetByID(ctx, marked.VisitID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", dateutil.Format(v.VisitDate))
	require.NotNil(t, v.ModifiedAt)
}

func TestVisitService_UpdateDate_RejectsFuture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.seedSale(t, "2024-01-01", "2024-01-31", 3)
	marked, err := f.svc.Mark(ctx, visit.MarkVisitRequest{SaleID: s.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateDate(ctx, visit.UpdateVisitDateRequest{ID: marked.VisitID, VisitDate: "2024-01-11"})
	assert.ErrorIs(t, err, visit.ErrVisitDateInFuture)

	_, err = f.svc.UpdateDate(ctx, visit.UpdateVisitDateRequest{ID: marked.VisitID, VisitDate: "2024-01-10"})
	assert.NoError(t, err)
}

func TestVisitService_UpdateDate_UnknownVisit(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateDate(context.Background(), visit.UpdateVisitDateRequest{ID: "missing", VisitDate: "2024-01-05"})
	assert.ErrorIs(t, err, visit.ErrVisitNotFound)
}
