package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type alertRepositoryImpl struct {
	db *database.DB
}

func NewAlertRepository(db *database.DB) alert.AlertRepository {
	return &alertRepositoryImpl{db: db}
}

const alertSelect = `
	SELECT a.id, a.sale_id, a.client_id, c.first_name || ' ' || c.last_name, p.name,
		a.expiry_date, a.days_remaining, a.used_visits, a.max_visits, a.usage_percent, a.level,
		a.created_at, a.updated_at
	FROM alerts a
	JOIN sales s ON s.id = a.sale_id
	JOIN clients c ON c.id = a.client_id
	JOIN plans p ON p.id = s.plan_id`

func scanAlert(row pgx.Row) (alert.Alert, error) {
	var a alert.Alert
	err := row.Scan(
		&a.ID, &a.SaleID, &a.ClientID, &a.ClientName, &a.PlanName,
		&a.ExpiryDate, &a.DaysRemaining, &a.UsedVisits, &a.MaxVisits, &a.UsagePercent, &a.Level,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Upsert implements alert.AlertRepository.
func (r *alertRepositoryImpl) Upsert(ctx context.Context, a alert.Alert) (alert.Alert, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return alert.Alert{}, err
	}

	query := `
		INSERT INTO alerts (id, sale_id, client_id, expiry_date, days_remaining, used_visits, max_visits, usage_percent, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (sale_id) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			expiry_date = EXCLUDED.expiry_date,
			days_remaining = EXCLUDED.days_remaining,
			used_visits = EXCLUDED.used_visits,
			max_visits = EXCLUDED.max_visits,
			usage_percent = EXCLUDED.usage_percent,
			level = EXCLUDED.level,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	stored := a
	err = q.QueryRow(ctx, query,
		id, a.SaleID, a.ClientID, a.ExpiryDate, a.DaysRemaining,
		a.UsedVisits, a.MaxVisits, a.UsagePercent, a.Level,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return alert.Alert{}, fmt.Errorf("failed to upsert alert for sale %s: %w", a.SaleID, err)
	}
	return stored, nil
}

// GetBySaleID implements alert.AlertRepository.
func (r *alertRepositoryImpl) GetBySaleID(ctx context.Context, saleID string) (alert.Alert, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAlert(q.QueryRow(ctx, alertSelect+` WHERE a.sale_id = $1 AND `+notDeleted("s"), saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return alert.Alert{}, alert.ErrAlertNotFound
		}
		return alert.Alert{}, fmt.Errorf("failed to get alert: %w", err)
	}
	return a, nil
}

// List implements alert.AlertRepository.
func (r *alertRepositoryImpl) List(ctx context.Context, filter alert.AlertFilter) ([]alert.Alert, error) {
	q := GetQuerier(ctx, r.db)

	var (
		query string
		args  []interface{}
	)
	switch filter.Mode {
	case alert.ModeUsage:
		query = alertSelect + ` WHERE ` + notDeleted("s") + ` AND a.max_visits > 0
			ORDER BY a.usage_percent DESC, a.expiry_date ASC
			LIMIT $1`
		args = []interface{}{filter.Limit}
	default:
		query = alertSelect + ` WHERE ` + notDeleted("s") + ` AND a.days_remaining > 0 AND a.days_remaining <= $1
			ORDER BY a.expiry_date ASC
			LIMIT $2`
		args = []interface{}{filter.Days, filter.Limit}
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]alert.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return alerts, nil
}

// DeleteBySaleID implements alert.AlertRepository. Deleting a missing alert is not an error.
func (r *alertRepositoryImpl) DeleteBySaleID(ctx context.Context, saleID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM alerts WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	return nil
}
