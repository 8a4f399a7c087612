package workhours

import (
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var maxHours = decimal.NewFromInt(24)

const maxVisits = 100

type CreateWorkHoursRequest struct {
	EmployeeID  string          `json:"employee_id"`
	WorkDate    *string         `json:"work_date,omitempty"`
	HoursCount  decimal.Decimal `json:"hours_count"`
	VisitsCount int             `json:"visits_count"`

	// parsed by Validate
	ParsedWorkDate *time.Time `json:"-"`
}

func (r *CreateWorkHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "invalid employee_id format"})
	}
	if d, ok := validator.ParseOptionalDate(r.WorkDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "work_date", Message: "work_date must be in YYYY-MM-DD format"})
	} else {
		r.ParsedWorkDate = d
	}
	errs = append(errs, validateCounts(r.HoursCount, r.VisitsCount)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateWorkHoursRequest struct {
	ID          string           `json:"-"`
	WorkDate    *string          `json:"work_date,omitempty"`
	HoursCount  *decimal.Decimal `json:"hours_count,omitempty"`
	VisitsCount *int             `json:"visits_count,omitempty"`

	ParsedWorkDate *time.Time `json:"-"`
}

func (r *UpdateWorkHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if d, ok := validator.ParseOptionalDate(r.WorkDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "work_date", Message: "work_date must be in YYYY-MM-DD format"})
	} else {
		r.ParsedWorkDate = d
	}
	if r.HoursCount != nil && !validator.InRange(*r.HoursCount, decimal.Zero, maxHours) {
		errs = append(errs, validator.ValidationError{Field: "hours_count", Message: "hours_count must be between 0 and 24"})
	}
	if r.VisitsCount != nil && (*r.VisitsCount < 0 || *r.VisitsCount > maxVisits) {
		errs = append(errs, validator.ValidationError{Field: "visits_count", Message: "visits_count must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateCounts(hours decimal.Decimal, visits int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !validator.InRange(hours, decimal.Zero, maxHours) {
		errs = append(errs, validator.ValidationError{Field: "hours_count", Message: "hours_count must be between 0 and 24"})
	}
	if visits < 0 || visits > maxVisits {
		errs = append(errs, validator.ValidationError{Field: "visits_count", Message: "visits_count must be between 0 and 100"})
	}
	return errs
}

type WorkHoursFilter struct {
	EmployeeID string     `json:"employee_id"`
	From       *time.Time `json:"from"`
	To         *time.Time `json:"to"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

type SummaryRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "valid employee_id is required"})
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

	if len(errs) > 0 {
		return errs
	}
	r.From, r.To = from, to
	return nil
}

type WorkHoursResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	WorkDate     string          `json:"work_date"`
	HoursCount   decimal.Decimal `json:"hours_count"`
	VisitsCount  int             `json:"visits_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

func ToResponse(wh WorkHours) WorkHoursResponse {
	return WorkHoursResponse{
		ID:           wh.ID,
		EmployeeID:   wh.EmployeeID,
		EmployeeName: wh.EmployeeName,
		WorkDate:     dateutil.Format(wh.WorkDate),
		HoursCount:   wh.HoursCount,
		VisitsCount:  wh.VisitsCount,
		CreatedAt:    wh.CreatedAt,
		UpdatedAt:    wh.UpdatedAt,
	}
}

type ListWorkHoursResponse struct {
	WorkHours  []WorkHoursResponse `json:"work_hours"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

type SummaryResponse struct {
	EmployeeID  string          `json:"employee_id"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	TotalVisits int             `json:"total_visits"`
}
