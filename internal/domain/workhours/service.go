package workhours

import "context"

type WorkHoursService interface {
	Create(ctx context.Context, req CreateWorkHoursRequest) (WorkHoursResponse, error)
	Update(ctx context.Context, req UpdateWorkHoursRequest) (WorkHoursResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter WorkHoursFilter) (ListWorkHoursResponse, error)
	Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}
