package plan

import (
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Plan is a membership template (the "service" a client buys).
type Plan struct {
	ID           string
	Name         string
	Description  *string
	Price        decimal.Decimal
	DurationDays int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EndDate returns the last day of a membership of this plan starting on start.
func (p Plan) EndDate(start time.Time) time.Time {
	return dateutil.AddDays(start, p.DurationDays)
}
