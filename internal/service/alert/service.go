package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/metrics"
	"github.com/freedomdance/studio-backend/internal/pkg/sse"
)

// Publisher fans alert changes out to stream subscribers.
type Publisher interface {
	Publish(event sse.Event)
}

type AlertServiceImpl struct {
	alertRepo alert.AlertRepository
	saleRepo  sale.SaleRepository
	publisher Publisher
	metrics   *metrics.Metrics
	clock     dateutil.Clock
}

func NewAlertService(
	alertRepo alert.AlertRepository,
	saleRepo sale.SaleRepository,
	publisher Publisher,
	m *metrics.Metrics,
	clock dateutil.Clock,
) alert.AlertService {
	return &AlertServiceImpl{
		alertRepo: alertRepo,
		saleRepo:  saleRepo,
		publisher: publisher,
		metrics:   m,
		clock:     clock,
	}
}

// RecomputeForSale implements alert.AlertService. It runs on whatever querier
// ctx carries, so callers inside a transaction see their own writes.
func (s *AlertServiceImpl) RecomputeForSale(ctx context.Context, saleID string) (*alert.AlertResponse, error) {
	current, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, sale.ErrSaleNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load sale for alert: %w", err)
	}

	computed := alert.Evaluate(current, current.VisitCount, dateutil.Today(s.clock))
	stored, err := s.alertRepo.Upsert(ctx, computed)
	if err != nil {
		return nil, err
	}
	s.metrics.AlertRecomputed()

	resp := alert.ToResponse(stored)
	if s.publisher != nil {
		s.publisher.Publish(sse.Event{Event: sse.EventAlertUpdated, Data: resp})
	}
	return &resp, nil
}

// RecomputeAll implements alert.AlertService. A failing sale is logged and
// skipped; the count covers the alerts actually stored.
func (s *AlertServiceImpl) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.saleRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, err
	}

	var (
		stored int
		errs   []error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		resp, err := s.RecomputeForSale(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "alert recompute failed", "sale_id", id, "error", err)
			errs = append(errs, err)
			continue
		}
		if resp != nil {
			stored++
		}
	}

	if len(errs) > 0 {
		return stored, fmt.Errorf("failed to recompute %d of %d alerts: %w", len(errs), len(ids), errors.Join(errs...))
	}
	return stored, nil
}

// List implements alert.AlertService.
func (s *AlertServiceImpl) List(ctx context.Context, filter alert.AlertFilter) ([]alert.AlertResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	alerts, err := s.alertRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]alert.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, alert.ToResponse(a))
	}
	return resp, nil
}
