package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const workHoursUniqueConstraint = "work_hours_employee_date_key"

type workHoursRepositoryImpl struct {
	db *database.DB
}

func NewWorkHoursRepository(db *database.DB) workhours.WorkHoursRepository {
	return &workHoursRepositoryImpl{db: db}
}

const workHoursSelect = `
	SELECT w.id, w.employee_id, e.first_name || ' ' || e.last_name, w.work_date,
		w.hours_count, w.visits_count, w.created_at, w.updated_at
	FROM work_hours w
	JOIN employees e ON e.id = w.employee_id`

func scanWorkHours(row pgx.Row) (workhours.WorkHours, error) {
	var wh workhours.WorkHours
	err := row.Scan(&wh.ID, &wh.EmployeeID, &wh.EmployeeName, &wh.WorkDate,
		&wh.HoursCount, &wh.VisitsCount, &wh.CreatedAt, &wh.UpdatedAt)
	return wh, err
}

// Create implements workhours.WorkHoursRepository.
func (r *workHoursRepositoryImpl) Create(ctx context.Context, wh workhours.WorkHours) (workhours.WorkHours, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return workhours.WorkHours{}, err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO work_hours (id, employee_id, work_date, hours_count, visits_count)
		VALUES ($1, $2, $3, $4, $5)`,
		id, wh.EmployeeID, wh.WorkDate, wh.HoursCount, wh.VisitsCount)
	if err != nil {
		if database.IsUniqueViolation(err, workHoursUniqueConstraint) {
			return workhours.WorkHours{}, workhours.ErrWorkHoursExists
		}
		return workhours.WorkHours{}, fmt.Errorf("failed to create work hours: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements workhours.WorkHoursRepository.
func (r *workHoursRepositoryImpl) GetByID(ctx context.Context, id string) (workhours.WorkHours, error) {
	q := GetQuerier(ctx, r.db)

	wh, err := scanWorkHours(q.QueryRow(ctx, workHoursSelect+` WHERE w.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workhours.WorkHours{}, workhours.ErrWorkHoursNotFound
		}
		return workhours.WorkHours{}, fmt.Errorf("failed to get work hours: %w", err)
	}
	return wh, nil
}

// Update implements workhours.WorkHoursRepository.
func (r *workHoursRepositoryImpl) Update(ctx context.Context, wh workhours.WorkHours) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE work_hours
		SET work_date = $1, hours_count = $2, visits_count = $3, updated_at = NOW()
		WHERE id = $4`,
		wh.WorkDate, wh.HoursCount, wh.VisitsCount, wh.ID)
	if err != nil {
		if database.IsUniqueViolation(err, workHoursUniqueConstraint) {
			return workhours.ErrWorkHoursExists
		}
		return fmt.Errorf("failed to update work hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workhours.ErrWorkHoursNotFound
	}
	return nil
}

// Delete implements workhours.WorkHoursRepository.
func (r *workHoursRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_hours WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workhours.ErrWorkHoursNotFound
	}
	return nil
}

// List implements workhours.WorkHoursRepository.
func (r *workHoursRepositoryImpl) List(ctx context.Context, filter workhours.WorkHoursFilter) ([]workhours.WorkHours, int64, error) {
	q := GetQuerier(ctx, r.db)

	page, limit := pagination.Normalize(filter.Page, filter.Limit)

	var whereClauses []string
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("w.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("w.work_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("w.work_date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM work_hours w"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work hours: %w", err)
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY w.work_date DESC, e.last_name LIMIT $%d OFFSET $%d", workHoursSelect, where, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work hours: %w", err)
	}
	defer rows.Close()

	items := make([]workhours.WorkHours, 0)
	for rows.Next() {
		wh, err := scanWorkHours(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan work hours: %w", err)
		}
		items = append(items, wh)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate work hours: %w", err)
	}
	return items, total, nil
}

// SumForPeriod implements workhours.WorkHoursRepository.
func (r *workHoursRepositoryImpl) SumForPeriod(ctx context.Context, employeeID string, from, to time.Time) (workhours.Totals, error) {
	q := GetQuerier(ctx, r.db)

	var totals workhours.Totals
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(hours_count), 0), COALESCE(SUM(visits_count), 0)
		FROM work_hours
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3`,
		employeeID, from, to).Scan(&totals.TotalHours, &totals.TotalVisits)
	if err != nil {
		return workhours.Totals{}, fmt.Errorf("failed to sum work hours: %w", err)
	}
	return totals, nil
}
