package visit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/domain/visit"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/metrics"
)

type VisitServiceImpl struct {
	tx        database.Transactor
	visitRepo visit.VisitRepository
	saleRepo  sale.SaleRepository
	alerts    alert.AlertService
	metrics   *metrics.Metrics
	clock     dateutil.Clock
}

func NewVisitService(
	tx database.Transactor,
	visitRepo visit.VisitRepository,
	saleRepo sale.SaleRepository,
	alerts alert.AlertService,
	m *metrics.Metrics,
	clock dateutil.Clock,
) visit.VisitService {
	return &VisitServiceImpl{
		tx:        tx,
		visitRepo: visitRepo,
		saleRepo:  saleRepo,
		alerts:    alerts,
		metrics:   m,
		clock:     clock,
	}
}

// Mark implements visit.VisitService. The sale row stays locked from the
// limit check until the visit is written.
func (s *VisitServiceImpl) Mark(ctx context.Context, req visit.MarkVisitRequest) (visit.MarkVisitResponse, error) {
	if err := req.Validate(); err != nil {
		return visit.MarkVisitResponse{}, err
	}

	now := s.clock.Now()
	today := dateutil.DateOnly(now)

	var resp visit.MarkVisitResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.saleRepo.GetByIDForUpdate(ctx, req.SaleID)
		if err != nil {
			return err
		}
		if locked.ExpiredAt(today) {
			return visit.ErrMembershipExpired
		}

		used, err := s.visitRepo.CountBySale(ctx, locked.ID)
		if err != nil {
			return err
		}
		if !locked.Unlimited() && used >= locked.MaxVisits {
			return &visit.LimitExhaustedError{VisitCount: used, MaxVisits: locked.MaxVisits}
		}

		created, err := s.visitRepo.Create(ctx, visit.Visit{SaleID: locked.ID, VisitDate: now})
		if err != nil {
			return err
		}

		alertData, err := s.alerts.RecomputeForSale(ctx, locked.ID)
		if err != nil {
			return err
		}

		locked.VisitCount = used + 1
		resp = visit.MarkVisitResponse{
			Success:         true,
			Message:         "Visit marked",
			VisitID:         created.ID,
			VisitCount:      locked.VisitCount,
			RemainingVisits: locked.RemainingVisits(),
			AlertData:       alertData,
		}
		return nil
	})
	if err != nil {
		s.recordRejection(ctx, req.SaleID, err)
		return visit.MarkVisitResponse{}, err
	}

	s.metrics.VisitMarked()
	slog.InfoContext(ctx, "visit marked", "sale_id", req.SaleID, "visit_count", resp.VisitCount)
	return resp, nil
}

func (s *VisitServiceImpl) recordRejection(ctx context.Context, saleID string, err error) {
	var reason string
	switch {
	case errors.Is(err, sale.ErrSaleNotFound):
		reason = metrics.ReasonNotFound
	case errors.Is(err, visit.ErrMembershipExpired):
		reason = metrics.ReasonExpired
	case errors.Is(err, visit.ErrVisitLimitExhausted):
		reason = metrics.ReasonLimitExhausted
	default:
		return
	}
	s.metrics.VisitRejected(reason)
	slog.WarnContext(ctx, "visit rejected", "sale_id", saleID, "reason", reason)
}

// History implements visit.VisitService.
func (s *VisitServiceImpl) History(ctx context.Context, saleID string) ([]visit.VisitResponse, error) {
	if _, err := s.saleRepo.GetByID(ctx, saleID); err != nil {
		return nil, err
	}

	visits, err := s.visitRepo.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	resp := make([]visit.VisitResponse, 0, len(visits))
	for _, v := range visits {
		resp = append(resp, visit.ToResponse(v))
	}
	return resp, nil
}

// UpdateDate implements visit.VisitService. The alert is recomputed even
// though the visit count does not change.
func (s *VisitServiceImpl) UpdateDate(ctx context.Context, req visit.UpdateVisitDateRequest) (visit.UpdateVisitDateResponse, error) {
	if err := req.Validate(); err != nil {
		return visit.UpdateVisitDateResponse{}, err
	}

	now := s.clock.Now()
	if req.ParsedVisitDate.After(dateutil.DateOnly(now)) {
		return visit.UpdateVisitDateResponse{}, visit.ErrVisitDateInFuture
	}

	var resp visit.UpdateVisitDateResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.visitRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if err := s.visitRepo.UpdateDate(ctx, existing.ID, req.ParsedVisitDate, now); err != nil {
			return err
		}

		alertData, err := s.alerts.RecomputeForSale(ctx, existing.SaleID)
		if err != nil {
			return err
		}

		resp = visit.UpdateVisitDateResponse{
			Success:    true,
			Message:    "Visit date updated",
			NewDate:    dateutil.Format(req.ParsedVisitDate),
			ModifiedAt: now.UTC(),
			AlertData:  alertData,
		}
		return nil
	})
	if err != nil {
		return visit.UpdateVisitDateResponse{}, err
	}

	slog.InfoContext(ctx, "visit date corrected", "visit_id", req.ID, "visit_date", resp.NewDate)
	return resp, nil
}
