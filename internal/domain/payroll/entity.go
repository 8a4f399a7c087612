package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType selects how a salary amount is derived for a period.
type PaymentType string

const (
	PaymentHourly     PaymentType = "Hourly"
	PaymentPerVisit   PaymentType = "PerVisit"
	PaymentPercentage PaymentType = "Percentage"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentHourly, PaymentPerVisit, PaymentPercentage:
		return true
	}
	return false
}

// perVisitShare is the part of the hourly rate paid for each conducted visit.
var perVisitShare = decimal.RequireFromString("0.10")

// SalaryCalculation is a stored payroll result for one employee and period.
type SalaryCalculation struct {
	ID             string
	EmployeeID     string
	EmployeeName   string
	StartDate      time.Time
	EndDate        time.Time
	PaymentType    PaymentType
	HourlyRate     decimal.Decimal
	PercentageRate decimal.Decimal
	TotalHours     decimal.Decimal
	TotalVisits    int
	PeriodIncome   decimal.Decimal
	Amount         decimal.Decimal
	TransactionID  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Inputs are the figures an amount is computed from.
type Inputs struct {
	PaymentType    PaymentType
	HourlyRate     decimal.Decimal
	PercentageRate decimal.Decimal
	TotalHours     decimal.Decimal
	TotalVisits    int
	PeriodIncome   decimal.Decimal
}

// CalculateAmount returns the salary rounded to 2 decimals.
func CalculateAmount(in Inputs) decimal.Decimal {
	var amount decimal.Decimal
	switch in.PaymentType {
	case PaymentPerVisit:
		amount = in.HourlyRate.Mul(perVisitShare).Mul(decimal.NewFromInt(int64(in.TotalVisits)))
	case PaymentPercentage:
		amount = in.PeriodIncome.Mul(in.PercentageRate)
	default:
		amount = in.HourlyRate.Mul(in.TotalHours)
	}
	return amount.Round(2)
}
