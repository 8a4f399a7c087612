package sale

import (
	"time"

	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusFuture  Status = "Future"
	StatusActive  Status = "Active"
	StatusExpired Status = "Expired"
)

// Sale is a purchased membership of one client for one plan.
// MaxVisits == 0 means the membership has no visit limit.
type Sale struct {
	ID              string
	ClientID        string
	ClientFirstName string
	ClientLastName  string
	PlanID          string
	PlanName        string
	PlanPrice       decimal.Decimal
	SaleDate        time.Time
	StartDate       time.Time
	EndDate         time.Time
	MaxVisits       int
	VisitCount      int
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s Sale) ClientName() string {
	return s.ClientFirstName + " " + s.ClientLastName
}

func (s Sale) Unlimited() bool {
	return s.MaxVisits == 0
}

// RemainingVisits is nil for unlimited memberships.
func (s Sale) RemainingVisits() *int {
	if s.Unlimited() {
		return nil
	}
	r := s.MaxVisits - s.VisitCount
	if r < 0 {
		r = 0
	}
	return &r
}

// StatusAt derives the temporal state of the sale on the given day.
func (s Sale) StatusAt(today time.Time) Status {
	today = dateutil.DateOnly(today)
	switch {
	case s.StartDate.After(today):
		return StatusFuture
	case s.EndDate.Before(today):
		return StatusExpired
	default:
		return StatusActive
	}
}

// ExpiredAt reports whether the membership can no longer be used on today.
func (s Sale) ExpiredAt(today time.Time) bool {
	return s.EndDate.Before(dateutil.DateOnly(today))
}
