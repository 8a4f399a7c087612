package plan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
)

type PlanServiceImpl struct {
	planRepo plan.PlanRepository
	clock    dateutil.Clock
}

func NewPlanService(planRepo plan.PlanRepository, clock dateutil.Clock) plan.PlanService {
	return &PlanServiceImpl{planRepo: planRepo, clock: clock}
}

// Create implements plan.PlanService.
func (s *PlanServiceImpl) Create(ctx context.Context, req plan.CreatePlanRequest) (plan.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return plan.PlanResponse{}, err
	}

	created, err := s.planRepo.Create(ctx, plan.Plan{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return plan.PlanResponse{}, fmt.Errorf("failed to create service: %w", err)
	}

	slog.InfoContext(ctx, "service plan created", "plan_id", created.ID, "duration_days", created.DurationDays)
	return plan.ToResponse(created), nil
}

// Get implements plan.PlanService.
func (s *PlanServiceImpl) Get(ctx context.Context, id string) (plan.PlanResponse, error) {
	p, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return plan.PlanResponse{}, err
	}
	return plan.ToResponse(p), nil
}

// List implements plan.PlanService.
func (s *PlanServiceImpl) List(ctx context.Context, filter plan.PlanFilter) (plan.ListPlanResponse, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	plans, total, err := s.planRepo.List(ctx, filter)
	if err != nil {
		return plan.ListPlanResponse{}, err
	}

	resp := plan.ListPlanResponse{
		Services:   make([]plan.PlanResponse, 0, len(plans)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, p := range plans {
		resp.Services = append(resp.Services, plan.ToResponse(p))
	}
	return resp, nil
}

// Update implements plan.PlanService. Changing the duration does not touch
// end dates of sales already made.
func (s *PlanServiceImpl) Update(ctx context.Context, req plan.UpdatePlanRequest) (plan.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return plan.PlanResponse{}, err
	}
	if err := s.planRepo.Update(ctx, req); err != nil {
		return plan.PlanResponse{}, err
	}
	return s.Get(ctx, req.ID)
}

// Delete implements plan.PlanService.
func (s *PlanServiceImpl) Delete(ctx context.Context, id string) error {
	inUse, err := s.planRepo.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return plan.ErrPlanInUse
	}
	return s.planRepo.Delete(ctx, id)
}

// PreviewEndDate implements plan.PlanService. An empty start date means today.
func (s *PlanServiceImpl) PreviewEndDate(ctx context.Context, id string, startDate string) (plan.EndDateResponse, error) {
	start := dateutil.Today(s.clock)
	if startDate != "" {
		parsed, ok := validator.IsValidDate(startDate)
		if !ok {
			return plan.EndDateResponse{}, validator.Field("start_date", "start_date must be in YYYY-MM-DD format")
		}
		start = parsed
	}

	p, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return plan.EndDateResponse{}, err
	}

	return plan.EndDateResponse{
		ServiceID:    p.ID,
		StartDate:    dateutil.Format(start),
		EndDate:      dateutil.Format(p.EndDate(start)),
		DurationDays: p.DurationDays,
	}, nil
}
