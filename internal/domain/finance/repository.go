package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	GetBySaleID(ctx context.Context, saleID string) (Transaction, error)
	GetBySalaryCalculationID(ctx context.Context, calculationID string) (Transaction, error)
	Update(ctx context.Context, t Transaction) error
	Delete(ctx context.Context, id string) error
	// List returns transactions ordered by transaction_date desc, created_at desc.
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	Totals(ctx context.Context, filter TransactionFilter) (Totals, error)
	DailyTotals(ctx context.Context, filter TransactionFilter) ([]DailyTotal, error)
	// SumIncome totals Income amounts with transaction_date in [from, to].
	SumIncome(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
