package alert

import (
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeExpiry Mode = "expiry"
	ModeUsage  Mode = "usage"

	DefaultDays  = 30
	DefaultLimit = 10
	maxLimit     = 100
)

type AlertFilter struct {
	Mode  Mode `json:"mode"`
	Days  int  `json:"days"`
	Limit int  `json:"limit"`
}

// Validate applies defaults before checking ranges.
func (f *AlertFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Mode == "" {
		f.Mode = ModeExpiry
	}
	if f.Days == 0 {
		f.Days = DefaultDays
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}

	if f.Mode != ModeExpiry && f.Mode != ModeUsage {
		errs = append(errs, validator.ValidationError{Field: "mode", Message: ErrInvalidMode.Error()})
	}
	if f.Days < 1 {
		errs = append(errs, validator.ValidationError{Field: "days", Message: "days must be positive"})
	}
	if f.Limit < 1 || f.Limit > maxLimit {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be between 1 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AlertResponse keeps camelCase keys because the front-desk client and the
// alert stream consumers read this exact shape.
type AlertResponse struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"saleId"`
	ClientID      string          `json:"clientId"`
	ClientName    string          `json:"clientName,omitempty"`
	ServiceName   string          `json:"serviceName,omitempty"`
	ExpiryDate    string          `json:"expiryDate"`
	DaysRemaining int             `json:"daysRemaining"`
	UsedVisits    int             `json:"usedVisits"`
	MaxVisits     int             `json:"maxVisits"`
	UsagePercent  decimal.Decimal `json:"usagePercent"`
	AlertLevel    Level           `json:"alertLevel"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func ToResponse(a Alert) AlertResponse {
	return AlertResponse{
		ID:            a.ID,
		SaleID:        a.SaleID,
		ClientID:      a.ClientID,
		ClientName:    a.ClientName,
		ServiceName:   a.PlanName,
		ExpiryDate:    dateutil.Format(a.ExpiryDate),
		DaysRemaining: a.DaysRemaining,
		UsedVisits:    a.UsedVisits,
		MaxVisits:     a.MaxVisits,
		UsagePercent:  a.UsagePercent,
		AlertLevel:    a.Level,
		UpdatedAt:     a.UpdatedAt,
	}
}
