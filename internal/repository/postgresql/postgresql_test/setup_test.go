package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/repository/postgresql"
	"github.com/freedomdance/studio-backend/internal/repository/postgresql/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testDBOnce sync.Once
	testDB     *database.DB
	testDBErr  error
)

// setupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is not set.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDBOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn)
		if testDBErr != nil {
			return
		}
		testDBErr = migrations.Apply(ctx, testDB)
	})
	require.NoError(t, testDBErr)
	require.NoError(t, truncateAllTables(context.Background(), testDB))
	return testDB
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tables := []string{
		"transactions",
		"salary_calculations",
		"work_hours",
		"employees",
		"alerts",
		"visits",
		"sales",
		"plans",
		"clients",
		"refresh_tokens",
		"users",
	}

	return postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, table := range tables {
			if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func createTestClient(t *testing.T, ctx context.Context, db *database.DB, first, last string) client.Client {
	t.Helper()
	c, err := postgresql.NewClientRepository(db).Create(ctx, client.Client{
		FirstName: first,
		LastName:  last,
		Phone:     "+70000000000",
	})
	require.NoError(t, err)
	return c
}

func createTestPlan(t *testing.T, ctx context.Context, db *database.DB, name string, price int64, days int) plan.Plan {
	t.Helper()
	p, err := postgresql.NewPlanRepository(db).Create(ctx, plan.Plan{
		Name:         name,
		Price:        decimal.NewFromInt(price),
		DurationDays: days,
	})
	require.NoError(t, err)
	return p
}
