package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/domain/payroll"
	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/metrics"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/freedomdance/studio-backend/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	svc      payroll.PayrollService
	metrics  *metrics.Metrics
	employee employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	store.Now = func() time.Time { return time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC) }
	m := metrics.Discard()

	emp, err := store.Employees().Create(ctx, employee.Employee{
		FirstName:  "Irina",
		LastName:   "Volkova",
		Phone:      "+79990000003",
		HourlyRate: decimal.NewFromInt(20),
		IsActive:   true,
	})
	require.NoError(t, err)

	svc := NewPayrollService(store.Transactor(), store.Payroll(), store.Employees(), store.WorkHours(), store.Transactions(), m)
	return &fixture{store: store, svc: svc, metrics: m, employee: emp}
}

func (f *fixture) logHours(t *testing.T, day string, hours string, visits int) {
	t.Helper()
	d, err := dateutil.Parse(day)
	require.NoError(t, err)
	_, err = f.store.WorkHours().Create(context.Background(), workhours.WorkHours{
		EmployeeID:  f.employee.ID,
		WorkDate:    d,
		HoursCount:  decimal.RequireFromString(hours),
		VisitsCount: visits,
	})
	require.NoError(t, err)
}

func (f *fixture) request() payroll.CalculateRequest {
	return payroll.CalculateRequest{EmployeeID: f.employee.ID, StartDate: "2024-01-01", EndDate: "2024-01-31"}
}

func TestPayrollService_Calculate_Hourly(t *testing.T) {
	f := newFixture(t)
	f.logHours(t, "2024-01-03", "4", 6)
	f.logHours(t, "2024-01-10", "3.5", 4)
	f.logHours(t, "2024-02-02", "8", 10)

	resp, err := f.svc.Calculate(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, payroll.PaymentHourly, resp.PaymentType)
	assert.True(t, resp.TotalHours.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, 10, resp.TotalVisits)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "Irina Volkova", resp.EmployeeName)
	assert.Equal(t, 0, f.store.Counts().Calculations)
}

func TestPayrollService_Calculate_PerVisitWithRateOverride(t *testing.T) {
	f := newFixture(t)
	f.logHours(t, "2024-01-03", "4", 12)

	rate := decimal.NewFromInt(50)
	req := f.request()
	req.PaymentType = payroll.PaymentPerVisit
	req.HourlyRate = &rate

	resp, err := f.svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(60)))
}

func TestPayrollService_Calculate_PercentageOfIncome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, day := range []string{"2024-01-05", "2024-01-20", "2024-02-03"} {
		d, _ := dateutil.Parse(day)
		_, err := f.store.Transactions().Create(ctx, finance.Transaction{
			Type: finance.TypeIncome, Amount: decimal.NewFromInt(500), Description: "sale",
			Category: finance.CategoryMembershipSale, TransactionDate: d,
		})
		require.NoError(t, err)
	}

	share := decimal.RequireFromString("0.15")
	req := f.request()
	req.PaymentType = payroll.PaymentPercentage
	req.PercentageRate = &share

	resp, err := f.svc.Calculate(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.PeriodIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(150)))
}

func TestPayrollService_Calculate_UnknownEmployee(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.EmployeeID = "0190a5b2-0000-7000-8000-000000000001"

	_, err := f.svc.Calculate(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "employee_id", verrs[0].Field)
}

func TestPayrollService_Create_RecordsExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.logHours(t, "2024-01-03", "5", 0)

	resp, err := f.svc.Create(ctx, f.request())
	require.NoError(t, err)
	require.NotNil(t, resp.TransactionID)

	expense, err := f.store.Transactions().GetBySalaryCalculationID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, *resp.TransactionID, expense.ID)
	assert.Equal(t, finance.TypeExpense, expense.Type)
	assert.Equal(t, finance.CategoryEmployeeSalary, expense.Category)
	assert.True(t, expense.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "2024-01-31", dateutil.Format(expense.TransactionDate))
	assert.Equal(t, "Salary Irina Volkova for 01.01-31.01", expense.Description)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PayrollCreated))
}

func TestPayrollService_Create_ZeroAmount(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.request())

	assert.ErrorIs(t, err, payroll.ErrZeroAmount)
	counts := f.store.Counts()
	assert.Equal(t, 0, counts.Calculations)
	assert.Equal(t, 0, counts.Transactions)
}

func TestPayrollService_Delete_RemovesExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.logHours(t, "2024-01-03", "5", 0)

	created, err := f.svc.Create(ctx, f.request())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	counts := f.store.Counts()
	assert.Equal(t, 0, counts.Calculations)
	assert.Equal(t, 0, counts.Transactions)

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrCalculationNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), payroll.ErrCalculationNotFound)
}

func TestPayrollService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.logHours(t, "2024-01-03", "5", 0)
	f.logHours(t, "2024-02-03", "2", 0)

	_, err := f.svc.Create(ctx, f.request())
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, payroll.CalculateRequest{EmployeeID: f.employee.ID, StartDate: "2024-02-01", EndDate: "2024-02-29"})
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, payroll.PayrollFilter{EmployeeID: f.employee.ID})
	require.NoError(t, err)
	require.Len(t, resp.Calculations, 2)
	assert.Equal(t, "2024-02-29", resp.Calculations[0].EndDate)
	assert.Equal(t, int64(2), resp.TotalCount)
}
