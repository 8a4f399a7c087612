package visit

import (
	"strings"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
)

type MarkVisitRequest struct {
	SaleID string `json:"sale_id"`
	// Legacy field name still sent by older front-end builds.
	AbonnementSaleID string `json:"abonnementSaleId,omitempty"`
}

func (r *MarkVisitRequest) Validate() error {
	if validator.IsEmpty(r.SaleID) {
		r.SaleID = strings.TrimSpace(r.AbonnementSaleID)
	}
	if validator.IsEmpty(r.SaleID) {
		return validator.Field("sale_id", "sale_id is required")
	}
	if !validator.IsValidUUID(r.SaleID) {
		return validator.Field("sale_id", "invalid sale_id format")
	}
	return nil
}

// MarkVisitResponse is written flat, outside the usual envelope, with
// camelCase keys. The front-desk client reads this exact shape.
type MarkVisitResponse struct {
	Success         bool                 `json:"success"`
	Message         string               `json:"message"`
	VisitID         string               `json:"visitId"`
	VisitCount      int                  `json:"visitCount"`
	RemainingVisits *int                 `json:"remainingVisits"`
	AlertData       *alert.AlertResponse `json:"alertData"`
}

type UpdateVisitDateRequest struct {
	ID        string `json:"-"`
	VisitDate string `json:"visit_date"`

	ParsedVisitDate time.Time `json:"-"`
}

func (r *UpdateVisitDateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.VisitDate) {
		errs = append(errs, validator.ValidationError{Field: "visit_date", Message: "visit_date is required"})
	} else if d, ok := validator.IsValidDate(strings.TrimSpace(r.VisitDate)); !ok {
		errs = append(errs, validator.ValidationError{Field: "visit_date", Message: "visit_date must be in YYYY-MM-DD format"})
	} else {
		r.ParsedVisitDate = d
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateVisitDateResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	NewDate    string               `json:"newDate"`
	ModifiedAt time.Time            `json:"modifiedAt"`
	AlertData  *alert.AlertResponse `json:"alertData,omitempty"`
}

type VisitResponse struct {
	ID         string     `json:"id"`
	SaleID     string     `json:"sale_id"`
	VisitDate  time.Time  `json:"visit_date"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

func ToResponse(v Visit) VisitResponse {
	return VisitResponse{
		ID:         v.ID,
		SaleID:     v.SaleID,
		VisitDate:  v.VisitDate,
		CreatedAt:  v.CreatedAt,
		ModifiedAt: v.ModifiedAt,
	}
}
