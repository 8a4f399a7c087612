package visit

import (
	"context"
	"time"
)

type VisitRepository interface {
	Create(ctx context.Context, v Visit) (Visit, error)
	GetByID(ctx context.Context, id string) (Visit, error)
	CountBySale(ctx context.Context, saleID string) (int, error)
	// ListBySale returns visits newest first.
	ListBySale(ctx context.Context, saleID string) ([]Visit, error)
	UpdateDate(ctx context.Context, id string, visitDate time.Time, modifiedAt time.Time) error
}
