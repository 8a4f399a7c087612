package sale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/domain/visit"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/metrics"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
)

type SaleServiceImpl struct {
	tx              database.Transactor
	saleRepo        sale.SaleRepository
	clientRepo      client.ClientRepository
	planRepo        plan.PlanRepository
	visitRepo       visit.VisitRepository
	transactionRepo finance.TransactionRepository
	alertRepo       alert.AlertRepository
	alerts          alert.AlertService
	metrics         *metrics.Metrics
	clock           dateutil.Clock
}

type Deps struct {
	Transactor      database.Transactor
	SaleRepo        sale.SaleRepository
	ClientRepo      client.ClientRepository
	PlanRepo        plan.PlanRepository
	VisitRepo       visit.VisitRepository
	TransactionRepo finance.TransactionRepository
	AlertRepo       alert.AlertRepository
	Alerts          alert.AlertService
	Metrics         *metrics.Metrics
	Clock           dateutil.Clock
}

func NewSaleService(d Deps) sale.SaleService {
	return &SaleServiceImpl{
		tx:              d.Transactor,
		saleRepo:        d.SaleRepo,
		clientRepo:      d.ClientRepo,
		planRepo:        d.PlanRepo,
		visitRepo:       d.VisitRepo,
		transactionRepo: d.TransactionRepo,
		alertRepo:       d.AlertRepo,
		alerts:          d.Alerts,
		metrics:         d.Metrics,
		clock:           d.Clock,
	}
}

// resolveRefs loads the client and plan a sale points at. Missing references
// are reported as field errors on the request.
func (s *SaleServiceImpl) resolveRefs(ctx context.Context, clientID, planID string) (client.Client, plan.Plan, error) {
	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return client.Client{}, plan.Plan{}, validator.Field("service_id", "service not found")
		}
		return client.Client{}, plan.Plan{}, err
	}

	c, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			return client.Client{}, plan.Plan{}, validator.Field("client_id", "client not found")
		}
		return client.Client{}, plan.Plan{}, err
	}
	return c, p, nil
}

// Create implements sale.SaleService.
func (s *SaleServiceImpl) Create(ctx context.Context, req sale.CreateSaleRequest) (sale.SaleResponse, error) {
	if err := req.Validate(); err != nil {
		return sale.SaleResponse{}, err
	}

	c, p, err := s.resolveRefs(ctx, req.ClientID, req.ServiceID)
	if err != nil {
		return sale.SaleResponse{}, err
	}

	today := dateutil.Today(s.clock)
	start := today
	if req.ParsedStartDate != nil {
		start = *req.ParsedStartDate
	}

	var created sale.Sale
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err = s.saleRepo.Create(ctx, sale.Sale{
			ClientID:  c.ID,
			PlanID:    p.ID,
			SaleDate:  today,
			StartDate: start,
			EndDate:   p.EndDate(start),
			MaxVisits: req.MaxVisits,
		})
		if err != nil {
			return err
		}

		saleID := created.ID
		_, err = s.transactionRepo.Create(ctx, finance.Transaction{
			Type:            finance.TypeIncome,
			Amount:          p.Price,
			Description:     finance.SaleDescription(p.Name, c.FirstName, c.LastName),
			Category:        finance.CategoryMembershipSale,
			TransactionDate: created.SaleDate,
			SaleID:          &saleID,
		})
		if err != nil {
			return fmt.Errorf("failed to record sale income: %w", err)
		}

		_, err = s.alerts.RecomputeForSale(ctx, created.ID)
		return err
	})
	if err != nil {
		return sale.SaleResponse{}, err
	}

	s.metrics.SaleCreated()
	slog.InfoContext(ctx, "membership sold",
		"sale_id", created.ID, "client_id", c.ID, "plan_id", p.ID,
		"start_date", dateutil.Format(created.StartDate), "end_date", dateutil.Format(created.EndDate))
	return sale.ToResponse(created, today), nil
}

// Update implements sale.SaleService. Changing the plan or the start date
// re-derives the end date from the plan duration; otherwise a submitted end
// date is kept as given.
func (s *SaleServiceImpl) Update(ctx context.Context, req sale.UpdateSaleRequest) (sale.SaleResponse, error) {
	if err := req.Validate(); err != nil {
		return sale.SaleResponse{}, err
	}

	_, p, err := s.resolveRefs(ctx, req.ClientID, req.ServiceID)
	if err != nil {
		return sale.SaleResponse{}, err
	}

	var updated sale.Sale
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.saleRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		used, err := s.visitRepo.CountBySale(ctx, current.ID)
		if err != nil {
			return err
		}
		if req.MaxVisits > 0 && req.MaxVisits < used {
			return &sale.MaxVisitsBelowUsageError{MaxVisits: req.MaxVisits, VisitCount: used}
		}

		next := current
		next.ClientID = req.ClientID
		next.PlanID = p.ID
		next.MaxVisits = req.MaxVisits
		if req.ParsedStartDate != nil {
			next.StartDate = *req.ParsedStartDate
		}

		switch {
		case next.PlanID != current.PlanID || !next.StartDate.Equal(current.StartDate):
			next.EndDate = p.EndDate(next.StartDate)
		case req.ParsedEndDate != nil:
			next.EndDate = *req.ParsedEndDate
		}
		if next.EndDate.Before(next.StartDate) {
			return validator.Field("end_date", "end_date must not be before start_date")
		}

		if err := s.saleRepo.Update(ctx, next); err != nil {
			return err
		}

		updated, err = s.saleRepo.GetByID(ctx, next.ID)
		if err != nil {
			return err
		}

		if err := s.syncIncome(ctx, updated); err != nil {
			return err
		}

		_, err = s.alerts.RecomputeForSale(ctx, updated.ID)
		return err
	})
	if err != nil {
		return sale.SaleResponse{}, err
	}

	slog.InfoContext(ctx, "sale updated", "sale_id", updated.ID, "max_visits", updated.MaxVisits,
		"end_date", dateutil.Format(updated.EndDate))
	return sale.ToResponse(updated, dateutil.Today(s.clock)), nil
}

// syncIncome keeps the income entry of a sale in line with its plan price,
// sale date and names, creating it when missing.
func (s *SaleServiceImpl) syncIncome(ctx context.Context, sl sale.Sale) error {
	description := finance.SaleDescription(sl.PlanName, sl.ClientFirstName, sl.ClientLastName)

	existing, err := s.transactionRepo.GetBySaleID(ctx, sl.ID)
	if errors.Is(err, finance.ErrTransactionNotFound) {
		saleID := sl.ID
		_, err = s.transactionRepo.Create(ctx, finance.Transaction{
			Type:            finance.TypeIncome,
			Amount:          sl.PlanPrice,
			Description:     description,
			Category:        finance.CategoryMembershipSale,
			TransactionDate: sl.SaleDate,
			SaleID:          &saleID,
		})
		if err != nil {
			return fmt.Errorf("failed to restore sale income: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	if existing.Amount.Equal(sl.PlanPrice) && sameDay(existing.TransactionDate, sl.SaleDate) && existing.Description == description {
		return nil
	}
	existing.Amount = sl.PlanPrice
	existing.TransactionDate = sl.SaleDate
	existing.Description = description

	return s.transactionRepo.Update(ctx, existing)
}

func sameDay(a, b time.Time) bool {
	return dateutil.DateOnly(a).Equal(dateutil.DateOnly(b))
}

// Get implements sale.SaleService.
func (s *SaleServiceImpl) Get(ctx context.Context, id string) (sale.SaleResponse, error) {
	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.SaleResponse{}, err
	}
	return sale.ToResponse(found, dateutil.Today(s.clock)), nil
}

// List implements sale.SaleService.
func (s *SaleServiceImpl) List(ctx context.Context, filter sale.SaleFilter) (sale.ListSaleResponse, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return sale.ListSaleResponse{}, err
	}

	today := dateutil.Today(s.clock)
	resp := sale.ListSaleResponse{
		Sales:      make([]sale.SaleResponse, 0, len(sales)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, sl := range sales {
		resp.Sales = append(resp.Sales, sale.ToResponse(sl, today))
	}
	return resp, nil
}

// Delete implements sale.SaleService. The income entry stays in the ledger.
func (s *SaleServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.saleRepo.SoftDelete(ctx, id); err != nil {
			return err
		}
		return s.alertRepo.DeleteBySaleID(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "sale deleted", "sale_id", id)
	return nil
}
