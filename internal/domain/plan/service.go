package plan

import "context"

type PlanService interface {
	Create(ctx context.Context, req CreatePlanRequest) (PlanResponse, error)
	Get(ctx context.Context, id string) (PlanResponse, error)
	List(ctx context.Context, filter PlanFilter) (ListPlanResponse, error)
	Update(ctx context.Context, req UpdatePlanRequest) (PlanResponse, error)
	Delete(ctx context.Context, id string) error
	PreviewEndDate(ctx context.Context, id string, startDate string) (EndDateResponse, error)
}
