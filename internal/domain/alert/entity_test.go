package alert

import (
	"testing"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestLevelByUsage(t *testing.T) {
	cases := []struct {
		used, max int
		pct       string
		want      Level
	}{
		{4, 5, "80", LevelCritical},
		{3, 5, "60", LevelWarning},
		{2, 5, "40", LevelNormal},
		{1, 2, "50", LevelWarning},
		{1, 3, "33.33", LevelNormal},
		{2, 3, "66.67", LevelWarning},
	}
	for _, c := range cases {
		pct := UsagePercent(c.used, c.max)
		assert.True(t, pct.Equal(decimal.RequireFromString(c.pct)), "%d/%d = %s", c.used, c.max, pct)
		assert.Equal(t, c.want, LevelByUsage(pct), "%d/%d", c.used, c.max)
	}
}

func TestUsagePercent_Unlimited(t *testing.T) {
	assert.True(t, UsagePercent(10, 0).IsZero())
}

func TestLevelByDays(t *testing.T) {
	assert.Equal(t, LevelCritical, LevelByDays(-2))
	assert.Equal(t, LevelCritical, LevelByDays(14))
	assert.Equal(t, LevelWarning, LevelByDays(15))
	assert.Equal(t, LevelWarning, LevelByDays(29))
	assert.Equal(t, LevelNormal, LevelByDays(30))
}

func TestDaysRemaining(t *testing.T) {
	assert.Equal(t, 30, DaysRemaining(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, -1, DaysRemaining(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), today))
}

func TestEvaluate_TakesMoreSevereLevel(t *testing.T) {
	s := sale.Sale{
		ID:              "sale-1",
		ClientID:        "client-1",
		ClientFirstName: "Anna",
		ClientLastName:  "Petrova",
		PlanName:        "Monthly",
		EndDate:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		MaxVisits:       5,
	}

	a := Evaluate(s, 4, today)
	assert.Equal(t, 61, a.DaysRemaining)
	assert.Equal(t, LevelCritical, a.Level)
	assert.Equal(t, "Anna Petrova", a.ClientName)
	assert.True(t, a.UsagePercent.Equal(decimal.NewFromInt(80)))

	a = Evaluate(s, 1, today)
	assert.Equal(t, LevelNormal, a.Level)

	s.EndDate = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	a = Evaluate(s, 1, today)
	assert.Equal(t, LevelWarning, a.Level)
}

func TestEvaluate_LowUsageNearExpiryIsWarning(t *testing.T) {
	s := sale.Sale{ID: "sale-3", EndDate: time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC), MaxVisits: 5}

	a := Evaluate(s, 2, today)
	assert.Equal(t, 20, a.DaysRemaining)
	assert.Equal(t, "40", a.UsagePercent.String())
	assert.Equal(t, LevelWarning, a.Level)

	s.EndDate = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, LevelNormal, Evaluate(s, 2, today).Level)
}

func TestEvaluate_UnlimitedUsesDaysOnly(t *testing.T) {
	s := sale.Sale{ID: "sale-2", EndDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	a := Evaluate(s, 40, today)
	assert.Equal(t, LevelNormal, a.Level)
	assert.True(t, a.UsagePercent.IsZero())
}

func TestAlertFilterDefaults(t *testing.T) {
	f := AlertFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, ModeExpiry, f.Mode)
	assert.Equal(t, DefaultDays, f.Days)
	assert.Equal(t, DefaultLimit, f.Limit)

	f = AlertFilter{Mode: "weekly"}
	assert.Error(t, f.Validate())
}
