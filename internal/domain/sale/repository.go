package sale

import "context"

type SaleRepository interface {
	Create(ctx context.Context, s Sale) (Sale, error)
	// GetByID returns a non-deleted sale with client, plan and visit count joined.
	GetByID(ctx context.Context, id string) (Sale, error)
	// GetByIDForUpdate locks the sale row for the rest of the transaction.
	// Joined names and VisitCount are not populated.
	GetByIDForUpdate(ctx context.Context, id string) (Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]Sale, int64, error)
	Update(ctx context.Context, s Sale) error
	SoftDelete(ctx context.Context, id string) error
	ListActiveIDs(ctx context.Context) ([]string, error)
}
