package alert

import "context"

type AlertService interface {
	// RecomputeForSale returns nil, nil when the sale does not exist.
	RecomputeForSale(ctx context.Context, saleID string) (*AlertResponse, error)
	RecomputeAll(ctx context.Context) (int, error)
	List(ctx context.Context, filter AlertFilter) ([]AlertResponse, error)
}
