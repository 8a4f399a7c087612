package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/visit"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type visitRepositoryImpl struct {
	db *database.DB
}

func NewVisitRepository(db *database.DB) visit.VisitRepository {
	return &visitRepositoryImpl{db: db}
}

const visitColumns = `id, sale_id, visit_date, created_at, modified_at`

func scanVisit(row pgx.Row) (visit.Visit, error) {
	var v visit.Visit
	err := row.Scan(&v.ID, &v.SaleID, &v.VisitDate, &v.CreatedAt, &v.ModifiedAt)
	return v, err
}

// Create implements visit.VisitRepository.
func (r *visitRepositoryImpl) Create(ctx context.Context, v visit.Visit) (visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return visit.Visit{}, err
	}

	created, err := scanVisit(q.QueryRow(ctx, `
		INSERT INTO visits (id, sale_id, visit_date)
		VALUES ($1, $2, $3)
		RETURNING `+visitColumns,
		id, v.SaleID, v.VisitDate.UTC()))
	if err != nil {
		return visit.Visit{}, fmt.Errorf("failed to create visit: %w", err)
	}
	return created, nil
}

// GetByID implements visit.VisitRepository. Visits of deleted sales are not found.
func (r *visitRepositoryImpl) GetByID(ctx context.Context, id string) (visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT v.id, v.sale_id, v.visit_date, v.created_at, v.modified_at
		FROM visits v
		JOIN sales s ON s.id = v.sale_id
		WHERE v.id = $1 AND ` + notDeleted("s")

	v, err := scanVisit(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return visit.Visit{}, visit.ErrVisitNotFound
		}
		return visit.Visit{}, fmt.Errorf("failed to get visit: %w", err)
	}
	return v, nil
}

// CountBySale implements visit.VisitRepository.
func (r *visitRepositoryImpl) CountBySale(ctx context.Context, saleID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM visits WHERE sale_id = $1`, saleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// ListBySale implements visit.VisitRepository.
func (r *visitRepositoryImpl) ListBySale(ctx context.Context, saleID string) ([]visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+visitColumns+` FROM visits WHERE sale_id = $1 ORDER BY visit_date DESC`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	visits := make([]visit.Visit, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visits: %w", err)
	}
	return visits, nil
}

// UpdateDate implements visit.VisitRepository.
func (r *visitRepositoryImpl) UpdateDate(ctx context.Context, id string, visitDate time.Time, modifiedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE visits SET visit_date = $1, modified_at = $2 WHERE id = $3`,
		visitDate.UTC(), modifiedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update visit date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return visit.ErrVisitNotFound
	}
	return nil
}
