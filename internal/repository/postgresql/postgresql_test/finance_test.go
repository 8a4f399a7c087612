package postgresql_test

import (
	"context"
	"testing"

	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/domain/payroll"
	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_TotalsAndDaily(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewTransactionRepository(db)

	entries := []finance.Transaction{
		{Type: finance.TypeIncome, Amount: decimal.NewFromInt(100), Description: "a", Category: finance.CategoryOther, TransactionDate: date(t, "2024-03-01"), IsManual: true},
		{Type: finance.TypeIncome, Amount: decimal.NewFromInt(50), Description: "b", Category: finance.CategoryOther, TransactionDate: date(t, "2024-03-02"), IsManual: true},
		{Type: finance.TypeExpense, Amount: decimal.NewFromInt(30), Description: "c", Category: finance.CategoryOther, TransactionDate: date(t, "2024-03-02"), IsManual: true},
		{Type: finance.TypeIncome, Amount: decimal.NewFromInt(999), Description: "outside", Category: finance.CategoryOther, TransactionDate: date(t, "2024-04-01"), IsManual: true},
	}
	for _, e := range entries {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	from, to := date(t, "2024-03-01"), date(t, "2024-03-31")
	filter := finance.TransactionFilter{From: &from, To: &to}

	totals, err := repo.Totals(ctx, filter)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(totals.Income))
	assert.True(t, decimal.NewFromInt(30).Equal(totals.Expense))
	assert.True(t, decimal.NewFromInt(120).Equal(totals.Balance()))

	items, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "2024-03-02", items[0].TransactionDate.Format("2006-01-02"))

	daily, err := repo.DailyTotals(ctx, filter)
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.True(t, decimal.NewFromInt(50).Equal(daily[1].Income))
	assert.True(t, decimal.NewFromInt(30).Equal(daily[1].Expense))

	income, err := repo.SumIncome(ctx, from, to)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(income))
}

func TestPayrollRepository_LinkAndDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	emp, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{
		FirstName:  "Ivan",
		LastName:   "Sidorov",
		Phone:      "+70000000001",
		HourlyRate: decimal.NewFromInt(500),
		IsActive:   true,
	})
	require.NoError(t, err)

	hours := postgresql.NewWorkHoursRepository(db)
	_, err = hours.Create(ctx, workhours.WorkHours{EmployeeID: emp.ID, WorkDate: date(t, "2024-03-01"), HoursCount: decimal.NewFromInt(4), VisitsCount: 10})
	require.NoError(t, err)
	_, err = hours.Create(ctx, workhours.WorkHours{EmployeeID: emp.ID, WorkDate: date(t, "2024-03-01"), HoursCount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, workhours.ErrWorkHoursExists)

	sum, err := hours.SumForPeriod(ctx, emp.ID, date(t, "2024-03-01"), date(t, "2024-03-31"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4).Equal(sum.TotalHours))
	assert.Equal(t, 10, sum.TotalVisits)

	payrolls := postgresql.NewPayrollRepository(db)
	calc, err := payrolls.Create(ctx, payroll.SalaryCalculation{
		EmployeeID:  emp.ID,
		StartDate:   date(t, "2024-03-01"),
		EndDate:     date(t, "2024-03-31"),
		PaymentType: payroll.PaymentHourly,
		HourlyRate:  decimal.NewFromInt(500),
		TotalHours:  sum.TotalHours,
		TotalVisits: sum.TotalVisits,
		Amount:      decimal.NewFromInt(2000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ivan Sidorov", calc.EmployeeName)

	transactions := postgresql.NewTransactionRepository(db)
	tx, err := transactions.Create(ctx, finance.Transaction{
		Type:                finance.TypeExpense,
		Amount:              calc.Amount,
		Description:         finance.SalaryDescription(emp.FirstName, emp.LastName, calc.StartDate, calc.EndDate),
		Category:            finance.CategoryEmployeeSalary,
		TransactionDate:     calc.EndDate,
		SalaryCalculationID: &calc.ID,
	})
	require.NoError(t, err)
	require.NoError(t, payrolls.SetTransaction(ctx, calc.ID, tx.ID))

	linked, err := transactions.GetBySalaryCalculationID(ctx, calc.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, linked.ID)

	require.NoError(t, transactions.Delete(ctx, tx.ID))
	require.NoError(t, payrolls.Delete(ctx, calc.ID))

	_, err = payrolls.GetByID(ctx, calc.ID)
	assert.ErrorIs(t, err, payroll.ErrCalculationNotFound)
	_, err = transactions.GetBySalaryCalculationID(ctx, calc.ID)
	assert.ErrorIs(t, err, finance.ErrTransactionNotFound)
}
