package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type planRepositoryImpl struct {
	db *database.DB
}

func NewPlanRepository(db *database.DB) plan.PlanRepository {
	return &planRepositoryImpl{db: db}
}

const planColumns = `id, name, description, price, duration_days, created_at, updated_at`

func scanPlan(row pgx.Row) (plan.Plan, error) {
	var p plan.Plan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationDays, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create implements plan.PlanRepository.
func (r *planRepositoryImpl) Create(ctx context.Context, newPlan plan.Plan) (plan.Plan, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return plan.Plan{}, err
	}

	query := `
		INSERT INTO plans (id, name, description, price, duration_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + planColumns

	created, err := scanPlan(q.QueryRow(ctx, query, id, newPlan.Name, newPlan.Description, newPlan.Price, newPlan.DurationDays))
	if err != nil {
		return plan.Plan{}, fmt.Errorf("failed to create service: %w", err)
	}
	return created, nil
}

// GetByID implements plan.PlanRepository.
func (r *planRepositoryImpl) GetByID(ctx context.Context, id string) (plan.Plan, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPlan(q.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plan.Plan{}, plan.ErrPlanNotFound
		}
		return plan.Plan{}, fmt.Errorf("failed to get service: %w", err)
	}
	return p, nil
}

// List implements plan.PlanRepository.
func (r *planRepositoryImpl) List(ctx context.Context, filter plan.PlanFilter) ([]plan.Plan, int64, error) {
	q := GetQuerier(ctx, r.db)

	page, limit := pagination.Normalize(filter.Page, filter.Limit)

	where := ""
	args := []interface{}{}
	argIdx := 1
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = fmt.Sprintf("WHERE name ILIKE $%d", argIdx)
		args = append(args, containsPattern(s))
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM plans "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM plans %s ORDER BY name LIMIT $%d OFFSET $%d`, planColumns, where, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	plans := make([]plan.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan service: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate services: %w", err)
	}
	return plans, total, nil
}

// Update implements plan.PlanRepository.
func (r *planRepositoryImpl) Update(ctx context.Context, req plan.UpdatePlanRequest) error {
	q := GetQuerier(ctx, r.db)

	var set setBuilder
	if req.Name != nil {
		set.add("name", strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			set.add("description", nil)
		} else {
			set.add("description", *req.Description)
		}
	}
	if req.Price != nil {
		set.add("price", *req.Price)
	}
	if req.DurationDays != nil {
		set.add("duration_days", *req.DurationDays)
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", nowUTC())

	clause, idx := set.build()
	sql := fmt.Sprintf("UPDATE plans SET %s WHERE id = $%d", clause, idx)

	tag, err := q.Exec(ctx, sql, append(set.args, req.ID)...)
	if err != nil {
		return fmt.Errorf("failed to update service with id %s: %w", req.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return plan.ErrPlanNotFound
	}
	return nil
}

// Delete implements plan.PlanRepository.
func (r *planRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return plan.ErrPlanInUse
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return plan.ErrPlanNotFound
	}
	return nil
}

// HasSales implements plan.PlanRepository. Soft-deleted sales still count
// since their rows keep referencing the plan.
func (r *planRepositoryImpl) HasSales(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE plan_id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check service usage: %w", err)
	}
	return exists, nil
}
