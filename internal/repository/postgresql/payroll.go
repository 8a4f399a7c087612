package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/freedomdance/studio-backend/internal/domain/payroll"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const salaryCalculationSelect = `
	SELECT s.id, s.employee_id, e.first_name || ' ' || e.last_name, s.start_date, s.end_date,
		s.payment_type, s.hourly_rate, s.percentage_rate, s.total_hours, s.total_visits,
		s.period_income, s.amount, s.transaction_id, s.created_at, s.updated_at
	FROM salary_calculations s
	JOIN employees e ON e.id = s.employee_id`

func scanSalaryCalculation(row pgx.Row) (payroll.SalaryCalculation, error) {
	var c payroll.SalaryCalculation
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.EmployeeName, &c.StartDate, &c.EndDate,
		&c.PaymentType, &c.HourlyRate, &c.PercentageRate, &c.TotalHours, &c.TotalVisits,
		&c.PeriodIncome, &c.Amount, &c.TransactionID, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *payrollRepository) Create(ctx context.Context, calc payroll.SalaryCalculation) (payroll.SalaryCalculation, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payroll.SalaryCalculation{}, err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO salary_calculations (
			id, employee_id, start_date, end_date, payment_type, hourly_rate,
			percentage_rate, total_hours, total_visits, period_income, amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, calc.EmployeeID, calc.StartDate, calc.EndDate, calc.PaymentType, calc.HourlyRate,
		calc.PercentageRate, calc.TotalHours, calc.TotalVisits, calc.PeriodIncome, calc.Amount,
	)
	if err != nil {
		return payroll.SalaryCalculation{}, fmt.Errorf("failed to create salary calculation: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.SalaryCalculation, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanSalaryCalculation(q.QueryRow(ctx, salaryCalculationSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryCalculation{}, payroll.ErrCalculationNotFound
		}
		return payroll.SalaryCalculation{}, fmt.Errorf("failed to get salary calculation: %w", err)
	}
	return c, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.SalaryCalculation, int64, error) {
	q := GetQuerier(ctx, r.db)

	page, limit := pagination.Normalize(filter.Page, filter.Limit)

	where := ""
	args := []interface{}{}
	if filter.EmployeeID != "" {
		where = " WHERE s.employee_id = $1"
		args = append(args, filter.EmployeeID)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM salary_calculations s"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary calculations: %w", err)
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY s.end_date DESC, s.created_at DESC LIMIT $%d OFFSET $%d",
		salaryCalculationSelect, where, len(args)+1, len(args)+2)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary calculations: %w", err)
	}
	defer rows.Close()

	items := make([]payroll.SalaryCalculation, 0)
	for rows.Next() {
		c, err := scanSalaryCalculation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary calculation: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate salary calculations: %w", err)
	}
	return items, total, nil
}

func (r *payrollRepository) SetTransaction(ctx context.Context, id string, transactionID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE salary_calculations SET transaction_id = $1, updated_at = NOW() WHERE id = $2`,
		transactionID, id)
	if err != nil {
		return fmt.Errorf("failed to link salary transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCalculationNotFound
	}
	return nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary_calculations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salary calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCalculationNotFound
	}
	return nil
}
