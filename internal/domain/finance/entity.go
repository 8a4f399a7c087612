package finance

import (
	"fmt"
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "Income"
	TypeExpense TransactionType = "Expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

const (
	CategoryMembershipSale = "Membership sale"
	CategoryEmployeeSalary = "Employee salary"
	CategoryOther          = "Other"
)

// Transaction is a ledger entry. Automatic entries are linked to exactly one
// sale or salary calculation; manual entries are linked to neither.
type Transaction struct {
	ID                  string
	Type                TransactionType
	Amount              decimal.Decimal
	Description         string
	Category            string
	TransactionDate     time.Time
	SaleID              *string
	SalaryCalculationID *string
	IsManual            bool
	CreatedAt           time.Time
}

func (t Transaction) Linked() bool {
	return t.SaleID != nil || t.SalaryCalculationID != nil
}

// Totals aggregates a window of the ledger.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

type DailyTotal struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func SaleDescription(planName, clientFirstName, clientLastName string) string {
	return fmt.Sprintf("Membership sale: %s (client: %s %s)", planName, clientFirstName, clientLastName)
}

func SalaryDescription(firstName, lastName string, from, to time.Time) string {
	return fmt.Sprintf("Salary %s %s for %s-%s", firstName, lastName, dateutil.FormatDayMonth(from), dateutil.FormatDayMonth(to))
}
