package workhours

import (
	"context"
	"testing"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (workhours.WorkHoursService, employee.Employee) {
	t.Helper()
	store := memory.NewStore()
	emp, err := store.Employees().Create(context.Background(), employee.Employee{
		FirstName: "Irina", LastName: "Volkova", Phone: "+79990000003", HourlyRate: decimal.NewFromInt(20), IsActive: true,
	})
	require.NoError(t, err)

	clock := dateutil.FixedClock(time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC))
	return NewWorkHoursService(store.WorkHours(), store.Employees(), clock), emp
}

func TestWorkHoursService_Create_DefaultsToToday(t *testing.T) {
	svc, emp := newTestService(t)

	resp, err := svc.Create(context.Background(), workhours.CreateWorkHoursRequest{
		EmployeeID:  emp.ID,
		HoursCount:  decimal.NewFromInt(6),
		VisitsCount: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", resp.WorkDate)
	assert.Equal(t, "Irina Volkova", resp.EmployeeName)
}

func TestWorkHoursService_Create_DuplicateDay(t *testing.T) {
	svc, emp := newTestService(t)
	ctx := context.Background()
	req := workhours.CreateWorkHoursRequest{EmployeeID: emp.ID, WorkDate: strPtr("2024-01-10"), HoursCount: decimal.NewFromInt(4)}

	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, workhours.ErrWorkHoursExists)
}

func TestWorkHoursService_Create_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), workhours.CreateWorkHoursRequest{
		EmployeeID: "0190a5b2-0000-7000-8000-000000000001",
		HoursCount: decimal.NewFromInt(4),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestWorkHoursService_Create_RejectsOutOfRange(t *testing.T) {
	svc, emp := newTestService(t)

	_, err := svc.Create(context.Background(), workhours.CreateWorkHoursRequest{
		EmployeeID:  emp.ID,
		HoursCount:  decimal.NewFromInt(25),
		VisitsCount: -1,
	})
	assert.Error(t, err)
}

func TestWorkHoursService_UpdateAndSummary(t *testing.T) {
	svc, emp := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, workhours.CreateWorkHoursRequest{EmployeeID: emp.ID, WorkDate: strPtr("2024-01-02"), HoursCount: decimal.NewFromInt(3), VisitsCount: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, workhours.CreateWorkHoursRequest{EmployeeID: emp.ID, WorkDate: strPtr("2024-01-03"), HoursCount: decimal.RequireFromString("2.5"), VisitsCount: 4})
	require.NoError(t, err)

	hours := decimal.NewFromInt(5)
	updated, err := svc.Update(ctx, workhours.UpdateWorkHoursRequest{ID: first.ID, HoursCount: &hours})
	require.NoError(t, err)
	assert.True(t, updated.HoursCount.Equal(hours))
	assert.Equal(t, 5, updated.VisitsCount)
	assert.NotNil(t, updated.UpdatedAt)

	summary, err := svc.Summary(ctx, workhours.SummaryRequest{EmployeeID: emp.ID, StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.True(t, summary.TotalHours.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, 9, summary.TotalVisits)

	list, err := svc.List(ctx, workhours.WorkHoursFilter{EmployeeID: emp.ID})
	require.NoError(t, err)
	require.Len(t, list.WorkHours, 2)
	assert.Equal(t, "2024-01-03", list.WorkHours[0].WorkDate)

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.ErrorIs(t, svc.Delete(ctx, first.ID), workhours.ErrWorkHoursNotFound)
}
