package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type saleRepositoryImpl struct {
	db *database.DB
}

func NewSaleRepository(db *database.DB) sale.SaleRepository {
	return &saleRepositoryImpl{db: db}
}

const saleSelect = `
	SELECT s.id, s.client_id, c.first_name, c.last_name, s.plan_id, p.name, p.price,
		s.sale_date, s.start_date, s.end_date, s.max_visits,
		(SELECT COUNT(*) FROM visits v WHERE v.sale_id = s.id) AS visit_count,
		s.is_deleted, s.created_at, s.updated_at
	FROM sales s
	JOIN clients c ON c.id = s.client_id
	JOIN plans p ON p.id = s.plan_id`

func scanSale(row pgx.Row) (sale.Sale, error) {
	var s sale.Sale
	err := row.Scan(
		&s.ID, &s.ClientID, &s.ClientFirstName, &s.ClientLastName, &s.PlanID, &s.PlanName, &s.PlanPrice,
		&s.SaleDate, &s.StartDate, &s.EndDate, &s.MaxVisits, &s.VisitCount,
		&s.IsDeleted, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements sale.SaleRepository.
func (r *saleRepositoryImpl) Create(ctx context.Context, s sale.Sale) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return sale.Sale{}, err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO sales (id, client_id, plan_id, sale_date, start_date, end_date, max_visits)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, s.ClientID, s.PlanID, s.SaleDate, s.StartDate, s.EndDate, s.MaxVisits)
	if err != nil {
		return sale.Sale{}, fmt.Errorf("failed to create sale: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements sale.SaleRepository.
func (r *saleRepositoryImpl) GetByID(ctx context.Context, id string) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSale(q.QueryRow(ctx, saleSelect+` WHERE s.id = $1 AND `+notDeleted("s"), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sale.Sale{}, sale.ErrSaleNotFound
		}
		return sale.Sale{}, fmt.Errorf("failed to get sale: %w", err)
	}
	return s, nil
}

// GetByIDForUpdate implements sale.SaleRepository.
func (r *saleRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, client_id, plan_id, sale_date, start_date, end_date, max_visits, is_deleted, created_at, updated_at
		FROM sales
		WHERE id = $1 AND ` + notDeleted("") + `
		FOR UPDATE`

	var s sale.Sale
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ClientID, &s.PlanID, &s.SaleDate, &s.StartDate, &s.EndDate,
		&s.MaxVisits, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sale.Sale{}, sale.ErrSaleNotFound
		}
		return sale.Sale{}, fmt.Errorf("failed to lock sale: %w", err)
	}
	return s, nil
}

// List implements sale.SaleRepository.
func (r *saleRepositoryImpl) List(ctx context.Context, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	q := GetQuerier(ctx, r.db)

	page, limit := pagination.Normalize(filter.Page, filter.Limit)

	whereClauses := []string{notDeleted("s")}
	args := []interface{}{}
	argIdx := 1

	if filter.ClientID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("s.client_id = $%d", argIdx))
		args = append(args, filter.ClientID)
		argIdx++
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR p.name ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, containsPattern(s))
		argIdx++
	}

	where := " WHERE " + strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM sales s
		JOIN clients c ON c.id = s.client_id
		JOIN plans p ON p.id = s.plan_id` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY s.sale_date DESC, s.created_at DESC LIMIT $%d OFFSET $%d",
		saleSelect, where, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]sale.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sales: %w", err)
	}
	return sales, total, nil
}

// Update implements sale.SaleRepository.
func (r *saleRepositoryImpl) Update(ctx context.Context, s sale.Sale) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE sales
		SET client_id = $1, plan_id = $2, start_date = $3, end_date = $4, max_visits = $5, updated_at = NOW()
		WHERE id = $6 AND `+notDeleted(""),
		s.ClientID, s.PlanID, s.StartDate, s.EndDate, s.MaxVisits, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update sale with id %s: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return sale.ErrSaleNotFound
	}
	return nil
}

// SoftDelete implements sale.SaleRepository.
func (r *saleRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE sales SET is_deleted = true, updated_at = NOW() WHERE id = $1 AND `+notDeleted(""), id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sale.ErrSaleNotFound
	}
	return nil
}

// ListActiveIDs implements sale.SaleRepository.
func (r *saleRepositoryImpl) ListActiveIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM sales WHERE `+notDeleted("")+` ORDER BY end_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect sale ids: %w", err)
	}
	return ids, nil
}
