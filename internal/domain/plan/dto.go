package plan

import (
	"strings"
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const maxDurationDays = 3650

type CreatePlanRequest struct {
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
}

func (r *CreatePlanRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > 150 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 150 characters"})
	}
	if !r.Price.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must be greater than 0"})
	} else if !validator.IsValidMoney(r.Price) {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must have at most 2 decimal places and be below 10000000000"})
	}
	if r.DurationDays < 1 || r.DurationDays > maxDurationDays {
		errs = append(errs, validator.ValidationError{Field: "duration_days", Message: "duration_days must be between 1 and 3650"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePlanRequest struct {
	ID           string           `json:"-"`
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	DurationDays *int             `json:"duration_days,omitempty"`
}

func (r *UpdatePlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if r.Price != nil && !r.Price.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must be greater than 0"})
	} else if r.Price != nil && !validator.IsValidMoney(*r.Price) {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must have at most 2 decimal places and be below 10000000000"})
	}
	if r.DurationDays != nil && (*r.DurationDays < 1 || *r.DurationDays > maxDurationDays) {
		errs = append(errs, validator.ValidationError{Field: "duration_days", Message: "duration_days must be between 1 and 3650"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PlanFilter struct {
	Search string `json:"search"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type PlanResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func ToResponse(p Plan) PlanResponse {
	return PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		DurationDays: p.DurationDays,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type ListPlanResponse struct {
	Services   []PlanResponse `json:"services"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

type EndDateResponse struct {
	ServiceID    string `json:"service_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
}
