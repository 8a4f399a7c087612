package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type transactionRepositoryImpl struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) finance.TransactionRepository {
	return &transactionRepositoryImpl{db: db}
}

const transactionColumns = `id, type, amount, description, category, transaction_date, sale_id, salary_calculation_id, is_manual, created_at`

func scanTransaction(row pgx.Row) (finance.Transaction, error) {
	var t finance.Transaction
	err := row.Scan(
		&t.ID, &t.Type, &t.Amount, &t.Description, &t.Category, &t.TransactionDate,
		&t.SaleID, &t.SalaryCalculationID, &t.IsManual, &t.CreatedAt,
	)
	return t, err
}

// dateWindow builds the transaction_date predicate for an optional [from, to] window.
func dateWindow(filter finance.TransactionFilter, argIdx int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if filter.From != nil {
		clauses = append(clauses, fmt.Sprintf("transaction_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		clauses = append(clauses, fmt.Sprintf("transaction_date <= $%d", argIdx))
		args = append(args, *filter.To)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Create implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) Create(ctx context.Context, t finance.Transaction) (finance.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return finance.Transaction{}, err
	}

	query := `
		INSERT INTO transactions (id, type, amount, description, category, transaction_date, sale_id, salary_calculation_id, is_manual)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + transactionColumns

	created, err := scanTransaction(q.QueryRow(ctx, query,
		id, t.Type, t.Amount, t.Description, t.Category, t.TransactionDate,
		t.SaleID, t.SalaryCalculationID, t.IsManual,
	))
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

func (r *transactionRepositoryImpl) getOne(ctx context.Context, where string, arg string) (finance.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTransaction(q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return finance.Transaction{}, finance.ErrTransactionNotFound
		}
		return finance.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// GetByID implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) GetByID(ctx context.Context, id string) (finance.Transaction, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetBySaleID implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) GetBySaleID(ctx context.Context, saleID string) (finance.Transaction, error) {
	return r.getOne(ctx, "sale_id = $1", saleID)
}

// GetBySalaryCalculationID implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) GetBySalaryCalculationID(ctx context.Context, calculationID string) (finance.Transaction, error) {
	return r.getOne(ctx, "salary_calculation_id = $1", calculationID)
}

// Update implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) Update(ctx context.Context, t finance.Transaction) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE transactions
		SET amount = $1, description = $2, category = $3, transaction_date = $4
		WHERE id = $5`,
		t.Amount, t.Description, t.Category, t.TransactionDate, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return finance.ErrTransactionNotFound
	}
	return nil
}

// Delete implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return finance.ErrTransactionNotFound
	}
	return nil
}

// List implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) List(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	where, args := dateWindow(filter, 1)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + ` ORDER BY transaction_date DESC, created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	items := make([]finance.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return items, nil
}

// Totals implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) Totals(ctx context.Context, filter finance.TransactionFilter) (finance.Totals, error) {
	q := GetQuerier(ctx, r.db)

	where, args := dateWindow(filter, 1)
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'Income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'Expense'), 0)
		FROM transactions` + where

	var totals finance.Totals
	if err := q.QueryRow(ctx, query, args...).Scan(&totals.Income, &totals.Expense); err != nil {
		return finance.Totals{}, fmt.Errorf("failed to total transactions: %w", err)
	}
	return totals, nil
}

// DailyTotals implements finance.TransactionRepository. Days without
// transactions are omitted.
func (r *transactionRepositoryImpl) DailyTotals(ctx context.Context, filter finance.TransactionFilter) ([]finance.DailyTotal, error) {
	q := GetQuerier(ctx, r.db)

	where, args := dateWindow(filter, 1)
	query := `
		SELECT transaction_date,
			COALESCE(SUM(amount) FILTER (WHERE type = 'Income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'Expense'), 0)
		FROM transactions` + where + `
		GROUP BY transaction_date
		ORDER BY transaction_date`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily totals: %w", err)
	}
	defer rows.Close()

	days := make([]finance.DailyTotal, 0)
	for rows.Next() {
		var d finance.DailyTotal
		if err := rows.Scan(&d.Date, &d.Income, &d.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily totals: %w", err)
	}
	return days, nil
}

// SumIncome implements finance.TransactionRepository.
func (r *transactionRepositoryImpl) SumIncome(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var sum decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = 'Income' AND transaction_date BETWEEN $1 AND $2`, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum income: %w", err)
	}
	return sum, nil
}
