package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, first_name, last_name, phone, email, hourly_rate, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Phone, &e.Email,
		&e.HourlyRate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		INSERT INTO employees (id, first_name, last_name, phone, email, hourly_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		id, newEmployee.FirstName, newEmployee.LastName, newEmployee.Phone,
		newEmployee.Email, newEmployee.HourlyRate, newEmployee.IsActive,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	page, limit := pagination.Normalize(filter.Page, filter.Limit)

	var whereClauses []string
	args := []interface{}{}
	argIdx := 1

	if filter.ActiveOnly {
		whereClauses = append(whereClauses, "is_active = true")
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, containsPattern(s))
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM employees %s
		ORDER BY is_active DESC, last_name, first_name
		LIMIT $%d OFFSET $%d`, employeeColumns, where, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	var set setBuilder
	if req.FirstName != nil {
		set.add("first_name", strings.TrimSpace(*req.FirstName))
	}
	if req.LastName != nil {
		set.add("last_name", strings.TrimSpace(*req.LastName))
	}
	if req.Phone != nil {
		set.add("phone", strings.TrimSpace(*req.Phone))
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			set.add("email", nil)
		} else {
			set.add("email", strings.TrimSpace(*req.Email))
		}
	}
	if req.HourlyRate != nil {
		set.add("hourly_rate", *req.HourlyRate)
	}
	if req.IsActive != nil {
		set.add("is_active", *req.IsActive)
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", nowUTC())

	clause, idx := set.build()
	sql := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d", clause, idx)

	tag, err := q.Exec(ctx, sql, append(set.args, req.ID)...)
	if err != nil {
		return fmt.Errorf("failed to update employee with id %s: %w", req.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var wasActive bool
	err := q.QueryRow(ctx, `
		UPDATE employees e SET is_active = false, updated_at = NOW()
		FROM (SELECT id, is_active FROM employees WHERE id = $1 FOR UPDATE) prev
		WHERE e.id = prev.id
		RETURNING prev.is_active`, id).Scan(&wasActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if !wasActive {
		return employee.ErrEmployeeAlreadyInactive
	}
	return nil
}
