package sale

import (
	"errors"
	"fmt"
)

var (
	ErrSaleNotFound        = errors.New("sale not found")
	ErrMaxVisitsBelowUsage = errors.New("max visits below current usage")
)

// MaxVisitsBelowUsageError is returned when an edit would set a visit limit
// lower than the number of visits already recorded.
type MaxVisitsBelowUsageError struct {
	MaxVisits  int
	VisitCount int
}

func (e *MaxVisitsBelowUsageError) Error() string {
	return fmt.Sprintf("cannot set limit %d: %d visits already used", e.MaxVisits, e.VisitCount)
}

func (e *MaxVisitsBelowUsageError) Is(target error) bool {
	return target == ErrMaxVisitsBelowUsage
}
