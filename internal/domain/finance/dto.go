package finance

import (
	"strings"
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxWindowDays bounds a summary or export window so the daily series stays
// a reasonable size.
const MaxWindowDays = 366

type TransactionFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *TransactionFilter) Validate() error {
	var errs validator.ValidationErrors

	if d, ok := validator.ParseOptionalDate(f.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	} else {
		f.From = d
	}
	if d, ok := validator.ParseOptionalDate(f.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	} else {
		f.To = d
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	} else if f.From != nil && f.To != nil && dateutil.DaysBetween(*f.From, *f.To) > MaxWindowDays {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "date range must not exceed 366 days"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateTransactionRequest struct {
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Category        *string         `json:"category,omitempty"`
	TransactionDate *string         `json:"transaction_date,omitempty"`

	ParsedDate *time.Time `json:"-"`
}

func (r *CreateTransactionRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Description = strings.TrimSpace(r.Description)

	if !r.Type.Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be Income or Expense"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than 0"})
	} else if !validator.IsValidMoney(r.Amount) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must have at most 2 decimal places and be below 10000000000"})
	}
	if r.Description == "" {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description is required"})
	} else if len(r.Description) > 500 {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description must not exceed 500 characters"})
	}
	if d, ok := validator.ParseOptionalDate(r.TransactionDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "transaction_date", Message: "transaction_date must be in YYYY-MM-DD format"})
	} else {
		r.ParsedDate = d
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransactionResponse struct {
	ID                  string          `json:"id"`
	Type                TransactionType `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	Category            string          `json:"category"`
	TransactionDate     string          `json:"transaction_date"`
	SaleID              *string         `json:"sale_id,omitempty"`
	SalaryCalculationID *string         `json:"salary_calculation_id,omitempty"`
	IsManual            bool            `json:"is_manual"`
	CreatedAt           time.Time       `json:"created_at"`
}

func ToResponse(t Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                  t.ID,
		Type:                t.Type,
		Amount:              t.Amount,
		Description:         t.Description,
		Category:            t.Category,
		TransactionDate:     dateutil.Format(t.TransactionDate),
		SaleID:              t.SaleID,
		SalaryCalculationID: t.SalaryCalculationID,
		IsManual:            t.IsManual,
		CreatedAt:           t.CreatedAt,
	}
}

type DailyTotalResponse struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type SummaryResponse struct {
	StartDate    *string               `json:"start_date"`
	EndDate      *string               `json:"end_date"`
	TotalIncome  decimal.Decimal       `json:"total_income"`
	TotalExpense decimal.Decimal       `json:"total_expense"`
	Balance      decimal.Decimal       `json:"balance"`
	Transactions []TransactionResponse `json:"transactions"`
	Daily        []DailyTotalResponse  `json:"daily,omitempty"`
}

type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
)

// ParseExportFormat defaults to xlsx.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatXLSX):
		return FormatXLSX, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return "", ErrInvalidExportFormat
	}
}

type ExportInfo struct {
	ContentType string
	FileName    string
}
