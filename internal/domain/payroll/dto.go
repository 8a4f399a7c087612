package payroll

import (
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CalculateRequest struct {
	EmployeeID     string           `json:"employee_id"`
	StartDate      string           `json:"start_date"`
	EndDate        string           `json:"end_date"`
	PaymentType    PaymentType      `json:"payment_type,omitempty"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate,omitempty"`
	PercentageRate *decimal.Decimal `json:"percentage_rate,omitempty"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "invalid employee_id format"})
	}

	from, okFrom := validator.IsValidDate(r.StartDate)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	to, okTo := validator.IsValidDate(r.EndDate)
	if !okTo {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}

	if r.PaymentType == "" {
		r.PaymentType = PaymentHourly
	}
	if !r.PaymentType.Valid() {
		errs = append(errs, validator.ValidationError{Field: "payment_type", Message: "payment_type must be Hourly, PerVisit or Percentage"})
	}
	if r.HourlyRate != nil && !validator.IsNonNegative(*r.HourlyRate) {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "hourly_rate must not be negative"})
	}
	if r.PercentageRate != nil && !validator.InRange(*r.PercentageRate, decimal.Zero, decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "percentage_rate", Message: "percentage_rate must be between 0 and 1"})
	}
	if r.PaymentType == PaymentPercentage && r.PercentageRate == nil {
		errs = append(errs, validator.ValidationError{Field: "percentage_rate", Message: "percentage_rate is required for Percentage payment"})
	}

	if len(errs) > 0 {
		return errs
	}
	r.From, r.To = from, to
	return nil
}

type PayrollFilter struct {
	EmployeeID string `json:"employee_id"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

type CalculationResponse struct {
	ID             string          `json:"id,omitempty"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	PaymentType    PaymentType     `json:"payment_type"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	PercentageRate decimal.Decimal `json:"percentage_rate"`
	TotalHours     decimal.Decimal `json:"total_hours"`
	TotalVisits    int             `json:"total_visits"`
	PeriodIncome   decimal.Decimal `json:"period_income"`
	Amount         decimal.Decimal `json:"amount"`
	TransactionID  *string         `json:"transaction_id,omitempty"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
}

func ToResponse(c SalaryCalculation) CalculationResponse {
	resp := CalculationResponse{
		ID:             c.ID,
		EmployeeID:     c.EmployeeID,
		EmployeeName:   c.EmployeeName,
		StartDate:      dateutil.Format(c.StartDate),
		EndDate:        dateutil.Format(c.EndDate),
		PaymentType:    c.PaymentType,
		HourlyRate:     c.HourlyRate,
		PercentageRate: c.PercentageRate,
		TotalHours:     c.TotalHours,
		TotalVisits:    c.TotalVisits,
		PeriodIncome:   c.PeriodIncome,
		Amount:         c.Amount,
		TransactionID:  c.TransactionID,
	}
	if !c.CreatedAt.IsZero() {
		created := c.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

type ListCalculationResponse struct {
	Calculations []CalculationResponse `json:"calculations"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}
