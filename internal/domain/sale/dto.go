package sale

import (
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSaleRequest struct {
	ClientID  string  `json:"client_id"`
	ServiceID string  `json:"service_id"`
	StartDate *string `json:"start_date,omitempty"`
	MaxVisits int     `json:"max_visits"`

	ParsedStartDate *time.Time `json:"-"`
}

func (r *CreateSaleRequest) Validate() error {
	errs := validateRefs(r.ClientID, r.ServiceID, r.MaxVisits)

	if d, ok := validator.ParseOptionalDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	} else {
		r.ParsedStartDate = d
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSaleRequest struct {
	ID        string  `json:"-"`
	ClientID  string  `json:"client_id"`
	ServiceID string  `json:"service_id"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	MaxVisits int     `json:"max_visits"`

	ParsedStartDate *time.Time `json:"-"`
	ParsedEndDate   *time.Time `json:"-"`
}

func (r *UpdateSaleRequest) Validate() error {
	errs := validateRefs(r.ClientID, r.ServiceID, r.MaxVisits)

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if d, ok := validator.ParseOptionalDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	} else {
		r.ParsedStartDate = d
	}
	if d, ok := validator.ParseOptionalDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	} else {
		r.ParsedEndDate = d
	}
	if r.ParsedStartDate != nil && r.ParsedEndDate != nil && r.ParsedEndDate.Before(*r.ParsedStartDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRefs(clientID, serviceID string, maxVisits int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if validator.IsEmpty(clientID) {
		errs = append(errs, validator.ValidationError{Field: "client_id", Message: "client_id is required"})
	} else if !validator.IsValidUUID(clientID) {
		errs = append(errs, validator.ValidationError{Field: "client_id", Message: "invalid client_id format"})
	}
	if validator.IsEmpty(serviceID) {
		errs = append(errs, validator.ValidationError{Field: "service_id", Message: "service_id is required"})
	} else if !validator.IsValidUUID(serviceID) {
		errs = append(errs, validator.ValidationError{Field: "service_id", Message: "invalid service_id format"})
	}
	if maxVisits < 0 {
		errs = append(errs, validator.ValidationError{Field: "max_visits", Message: "max_visits must not be negative"})
	}
	return errs
}

type SaleFilter struct {
	Search   string `json:"search"`
	ClientID string `json:"client_id"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
}

type SaleResponse struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"client_id"`
	ClientName      string          `json:"client_name"`
	ServiceID       string          `json:"service_id"`
	ServiceName     string          `json:"service_name"`
	Price           decimal.Decimal `json:"price"`
	SaleDate        string          `json:"sale_date"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	MaxVisits       int             `json:"max_visits"`
	VisitCount      int             `json:"visit_count"`
	RemainingVisits *int            `json:"remaining_visits"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func ToResponse(s Sale, today time.Time) SaleResponse {
	return SaleResponse{
		ID:              s.ID,
		ClientID:        s.ClientID,
		ClientName:      s.ClientName(),
		ServiceID:       s.PlanID,
		ServiceName:     s.PlanName,
		Price:           s.PlanPrice,
		SaleDate:        dateutil.Format(s.SaleDate),
		StartDate:       dateutil.Format(s.StartDate),
		EndDate:         dateutil.Format(s.EndDate),
		MaxVisits:       s.MaxVisits,
		VisitCount:      s.VisitCount,
		RemainingVisits: s.RemainingVisits(),
		Status:          s.StatusAt(today),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type ListSaleResponse struct {
	Sales      []SaleResponse `json:"sales"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}
