package plan

import "context"

type PlanRepository interface {
	Create(ctx context.Context, newPlan Plan) (Plan, error)
	GetByID(ctx context.Context, id string) (Plan, error)
	List(ctx context.Context, filter PlanFilter) ([]Plan, int64, error)
	Update(ctx context.Context, req UpdatePlanRequest) error
	Delete(ctx context.Context, id string) error
	HasSales(ctx context.Context, id string) (bool, error)
}
