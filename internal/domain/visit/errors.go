package visit

import (
	"errors"
	"fmt"
)

var (
	ErrVisitNotFound       = errors.New("visit not found")
	ErrMembershipExpired   = errors.New("membership expired")
	ErrVisitLimitExhausted = errors.New("visit limit exhausted")
	ErrVisitDateInFuture   = errors.New("visit date cannot be in the future")
)

// LimitExhaustedError carries the counts reported back when a visit is
// rejected because the membership has no visits left.
type LimitExhaustedError struct {
	VisitCount int
	MaxVisits  int
}

func (e *LimitExhaustedError) Error() string {
	return fmt.Sprintf("visit limit exhausted: %d of %d visits used", e.VisitCount, e.MaxVisits)
}

func (e *LimitExhaustedError) Is(target error) bool {
	return target == ErrVisitLimitExhausted
}
