package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptions(t *testing.T) {
	assert.Equal(t, "Membership sale: Monthly 8 (client: Anna Petrova)", SaleDescription("Monthly 8", "Anna", "Petrova"))

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Salary Ivan Sidorov for 01.01-15.01", SalaryDescription("Ivan", "Sidorov", from, to))
}

func TestTotalsBalance(t *testing.T) {
	totals := Totals{Income: decimal.NewFromInt(150), Expense: decimal.NewFromInt(30)}
	assert.True(t, totals.Balance().Equal(decimal.NewFromInt(120)))
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseExportFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseExportFormat("pdf")
	assert.ErrorIs(t, err, ErrInvalidExportFormat)
}

func TestCreateTransactionRequestValidate(t *testing.T) {
	req := CreateTransactionRequest{Type: "Refund", Amount: decimal.Zero}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "description")

	req = CreateTransactionRequest{Type: TypeExpense, Amount: decimal.NewFromInt(500), Description: " Rent "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Rent", req.Description)
}

func TestCreateTransactionRequestValidate_AmountPrecision(t *testing.T) {
	for _, amount := range []string{"0.001", "10000000000", "19.999"} {
		t.Run(amount, func(t *testing.T) {
			req := CreateTransactionRequest{Type: TypeIncome, Amount: decimal.RequireFromString(amount), Description: "Cash"}
			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "amount")
		})
	}

	req := CreateTransactionRequest{Type: TypeIncome, Amount: decimal.RequireFromString("9999999999.99"), Description: "Cash"}
	assert.NoError(t, req.Validate())
}

func TestTransactionFilterValidate_WindowCap(t *testing.T) {
	start, end := "2024-01-01", "2024-12-31"
	f := TransactionFilter{StartDate: &start, EndDate: &end}
	require.NoError(t, f.Validate())

	end = "2025-01-02"
	f = TransactionFilter{StartDate: &start, EndDate: &end}
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")

	// A single bound is not capped.
	f = TransactionFilter{StartDate: &start}
	assert.NoError(t, f.Validate())
}
