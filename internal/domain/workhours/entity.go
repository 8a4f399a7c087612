package workhours

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkHours is one employee's logged hours and conducted visits for a day.
type WorkHours struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	WorkDate     time.Time
	HoursCount   decimal.Decimal
	VisitsCount  int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type Totals struct {
	TotalHours  decimal.Decimal
	TotalVisits int
}
