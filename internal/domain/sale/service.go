package sale

import "context"

type SaleService interface {
	Create(ctx context.Context, req CreateSaleRequest) (SaleResponse, error)
	Update(ctx context.Context, req UpdateSaleRequest) (SaleResponse, error)
	Get(ctx context.Context, id string) (SaleResponse, error)
	List(ctx context.Context, filter SaleFilter) (ListSaleResponse, error)
	Delete(ctx context.Context, id string) error
}
