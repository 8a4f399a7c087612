package visit

import "context"

type VisitService interface {
	Mark(ctx context.Context, req MarkVisitRequest) (MarkVisitResponse, error)
	History(ctx context.Context, saleID string) ([]VisitResponse, error)
	UpdateDate(ctx context.Context, req UpdateVisitDateRequest) (UpdateVisitDateResponse, error)
}
