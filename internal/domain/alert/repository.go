package alert

import "context"

type AlertRepository interface {
	// Upsert inserts or replaces the alert keyed by sale_id.
	Upsert(ctx context.Context, a Alert) (Alert, error)
	GetBySaleID(ctx context.Context, saleID string) (Alert, error)
	List(ctx context.Context, filter AlertFilter) ([]Alert, error)
	DeleteBySaleID(ctx context.Context, saleID string) error
}
