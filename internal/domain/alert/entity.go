package alert

import (
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

type Level string

const (
	LevelNormal   Level = "Normal"
	LevelWarning  Level = "Warning"
	LevelCritical Level = "Critical"
)

func (l Level) severity() int {
	switch l {
	case LevelCritical:
		return 2
	case LevelWarning:
		return 1
	default:
		return 0
	}
}

const (
	criticalDays = 15
	warningDays  = 30
)

var (
	criticalUsage = decimal.NewFromInt(80)
	warningUsage  = decimal.NewFromInt(50)
	hundred       = decimal.NewFromInt(100)
)

// Alert is the derived expiry and usage standing of one sale.
type Alert struct {
	ID            string
	SaleID        string
	ClientID      string
	ClientName    string
	PlanName      string
	ExpiryDate    time.Time
	DaysRemaining int
	UsedVisits    int
	MaxVisits     int
	UsagePercent  decimal.Decimal
	Level         Level
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DaysRemaining is negative once the end date has passed.
func DaysRemaining(endDate, today time.Time) int {
	return dateutil.DaysBetween(today, endDate)
}

func LevelByDays(days int) Level {
	switch {
	case days < criticalDays:
		return LevelCritical
	case days < warningDays:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// UsagePercent returns used/max*100 rounded to 2 decimals, or 0 for unlimited.
func UsagePercent(used, max int) decimal.Decimal {
	if max <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(used)).Mul(hundred).Div(decimal.NewFromInt(int64(max))).Round(2)
}

func LevelByUsage(pct decimal.Decimal) Level {
	switch {
	case pct.GreaterThanOrEqual(criticalUsage):
		return LevelCritical
	case pct.GreaterThanOrEqual(warningUsage):
		return LevelWarning
	default:
		return LevelNormal
	}
}

// MoreSevere returns whichever level is closer to Critical.
func MoreSevere(a, b Level) Level {
	if b.severity() > a.severity() {
		return b
	}
	return a
}

// Evaluate builds the alert for s given its visit count. The level is the
// more severe of the expiry and usage classifications; unlimited sales are
// classified by expiry only.
func Evaluate(s sale.Sale, usedVisits int, today time.Time) Alert {
	days := DaysRemaining(s.EndDate, today)
	pct := UsagePercent(usedVisits, s.MaxVisits)

	level := LevelByDays(days)
	if s.MaxVisits > 0 {
		level = MoreSevere(level, LevelByUsage(pct))
	}

	return Alert{
		SaleID:        s.ID,
		ClientID:      s.ClientID,
		ClientName:    s.ClientName(),
		PlanName:      s.PlanName,
		ExpiryDate:    s.EndDate,
		DaysRemaining: days,
		UsedVisits:    usedVisits,
		MaxVisits:     s.MaxVisits,
		UsagePercent:  pct,
		Level:         level,
	}
}
