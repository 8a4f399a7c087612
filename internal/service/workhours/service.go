package workhours

import (
	"context"
	"fmt"

	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
)

type WorkHoursServiceImpl struct {
	workHoursRepo workhours.WorkHoursRepository
	employeeRepo  employee.EmployeeRepository
	clock         dateutil.Clock
}

func NewWorkHoursService(workHoursRepo workhours.WorkHoursRepository, employeeRepo employee.EmployeeRepository, clock dateutil.Clock) workhours.WorkHoursService {
	return &WorkHoursServiceImpl{
		workHoursRepo: workHoursRepo,
		employeeRepo:  employeeRepo,
		clock:         clock,
	}
}

// Create implements workhours.WorkHoursService. A missing work date means today.
func (s *WorkHoursServiceImpl) Create(ctx context.Context, req workhours.CreateWorkHoursRequest) (workhours.WorkHoursResponse, error) {
	if err := req.Validate(); err != nil {
		return workhours.WorkHoursResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return workhours.WorkHoursResponse{}, err
	}

	workDate := dateutil.Today(s.clock)
	if req.ParsedWorkDate != nil {
		workDate = *req.ParsedWorkDate
	}

	created, err := s.workHoursRepo.Create(ctx, workhours.WorkHours{
		EmployeeID:  req.EmployeeID,
		WorkDate:    workDate,
		HoursCount:  req.HoursCount,
		VisitsCount: req.VisitsCount,
	})
	if err != nil {
		return workhours.WorkHoursResponse{}, err
	}
	return workhours.ToResponse(created), nil
}

// Update implements workhours.WorkHoursService.
func (s *WorkHoursServiceImpl) Update(ctx context.Context, req workhours.UpdateWorkHoursRequest) (workhours.WorkHoursResponse, error) {
	if err := req.Validate(); err != nil {
		return workhours.WorkHoursResponse{}, err
	}

	current, err := s.workHoursRepo.GetByID(ctx, req.ID)
	if err != nil {
		return workhours.WorkHoursResponse{}, err
	}

	if req.ParsedWorkDate != nil {
		current.WorkDate = *req.ParsedWorkDate
	}
	if req.HoursCount != nil {
		current.HoursCount = *req.HoursCount
	}
	if req.VisitsCount != nil {
		current.VisitsCount = *req.VisitsCount
	}

	if err := s.workHoursRepo.Update(ctx, current); err != nil {
		return workhours.WorkHoursResponse{}, err
	}

	updated, err := s.workHoursRepo.GetByID(ctx, req.ID)
	if err != nil {
		return workhours.WorkHoursResponse{}, fmt.Errorf("failed to reload work hours: %w", err)
	}
	return workhours.ToResponse(updated), nil
}

// Delete implements workhours.WorkHoursService.
func (s *WorkHoursServiceImpl) Delete(ctx context.Context, id string) error {
	return s.workHoursRepo.Delete(ctx, id)
}

// List implements workhours.WorkHoursService.
func (s *WorkHoursServiceImpl) List(ctx context.Context, filter workhours.WorkHoursFilter) (workhours.ListWorkHoursResponse, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	items, total, err := s.workHoursRepo.List(ctx, filter)
	if err != nil {
		return workhours.ListWorkHoursResponse{}, err
	}

	resp := workhours.ListWorkHoursResponse{
		WorkHours:  make([]workhours.WorkHoursResponse, 0, len(items)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, wh := range items {
		resp.WorkHours = append(resp.WorkHours, workhours.ToResponse(wh))
	}
	return resp, nil
}

// Summary implements workhours.WorkHoursService.
func (s *WorkHoursServiceImpl) Summary(ctx context.Context, req workhours.SummaryRequest) (workhours.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return workhours.SummaryResponse{}, err
	}

	totals, err := s.workHoursRepo.SumForPeriod(ctx, req.EmployeeID, req.From, req.To)
	if err != nil {
		return workhours.SummaryResponse{}, err
	}

	return workhours.SummaryResponse{
		EmployeeID:  req.EmployeeID,
		StartDate:   dateutil.Format(req.From),
		EndDate:     dateutil.Format(req.To),
		TotalHours:  totals.TotalHours,
		TotalVisits: totals.TotalVisits,
	}, nil
}
