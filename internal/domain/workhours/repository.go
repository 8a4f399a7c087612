package workhours

import (
	"context"
	"time"
)

type WorkHoursRepository interface {
	Create(ctx context.Context, wh WorkHours) (WorkHours, error)
	GetByID(ctx context.Context, id string) (WorkHours, error)
	Update(ctx context.Context, wh WorkHours) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter WorkHoursFilter) ([]WorkHours, int64, error)
	// SumForPeriod totals hours and visits over work_date in [from, to].
	SumForPeriod(ctx context.Context, employeeID string, from, to time.Time) (Totals, error)
}
