package finance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/export"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type FinanceServiceImpl struct {
	transactionRepo finance.TransactionRepository
	clock           dateutil.Clock
}

func NewFinanceService(transactionRepo finance.TransactionRepository, clock dateutil.Clock) finance.FinanceService {
	return &FinanceServiceImpl{transactionRepo: transactionRepo, clock: clock}
}

// window validates the filter and falls back to the current month when no
// bound is given. A single bound leaves the other side open.
func (s *FinanceServiceImpl) window(filter *finance.TransactionFilter) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	if filter.From == nil && filter.To == nil {
		first, last := dateutil.MonthBounds(s.clock.Now())
		filter.From, filter.To = &first, &last
	}
	return nil
}

// Summary implements finance.FinanceService.
func (s *FinanceServiceImpl) Summary(ctx context.Context, filter finance.TransactionFilter) (finance.SummaryResponse, error) {
	if err := s.window(&filter); err != nil {
		return finance.SummaryResponse{}, err
	}

	var (
		totals finance.Totals
		items  []finance.Transaction
		daily  []finance.DailyTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.transactionRepo.Totals(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.transactionRepo.List(gctx, filter)
		return err
	})
	if filter.From != nil && filter.To != nil {
		g.Go(func() error {
			var err error
			daily, err = s.transactionRepo.DailyTotals(gctx, filter)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return finance.SummaryResponse{}, fmt.Errorf("failed to build finance summary: %w", err)
	}

	resp := finance.SummaryResponse{
		StartDate:    dateutil.FormatPtr(filter.From),
		EndDate:      dateutil.FormatPtr(filter.To),
		TotalIncome:  totals.Income,
		TotalExpense: totals.Expense,
		Balance:      totals.Balance(),
		Transactions: make([]finance.TransactionResponse, 0, len(items)),
	}
	for _, t := range items {
		resp.Transactions = append(resp.Transactions, finance.ToResponse(t))
	}
	if filter.From != nil && filter.To != nil {
		resp.Daily = fillDays(*filter.From, *filter.To, daily)
	}
	return resp, nil
}

// fillDays expands the aggregated days to every day of [from, to].
func fillDays(from, to time.Time, daily []finance.DailyTotal) []finance.DailyTotalResponse {
	byDay := make(map[string]finance.DailyTotal, len(daily))
	for _, d := range daily {
		byDay[dateutil.Format(d.Date)] = d
	}

	days := make([]finance.DailyTotalResponse, 0, dateutil.DaysBetween(from, to)+1)
	dateutil.EachDay(from, to, func(day time.Time) {
		key := dateutil.Format(day)
		entry := finance.DailyTotalResponse{Date: key, Income: decimal.Zero, Expense: decimal.Zero}
		if d, ok := byDay[key]; ok {
			entry.Income, entry.Expense = d.Income, d.Expense
		}
		days = append(days, entry)
	})
	return days
}

// CreateManual implements finance.FinanceService.
func (s *FinanceServiceImpl) CreateManual(ctx context.Context, req finance.CreateTransactionRequest) (finance.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return finance.TransactionResponse{}, err
	}

	category := finance.CategoryOther
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		category = strings.TrimSpace(*req.Category)
	}
	date := dateutil.Today(s.clock)
	if req.ParsedDate != nil {
		date = *req.ParsedDate
	}

	created, err := s.transactionRepo.Create(ctx, finance.Transaction{
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     req.Description,
		Category:        category,
		TransactionDate: date,
		IsManual:        true,
	})
	if err != nil {
		return finance.TransactionResponse{}, err
	}

	slog.InfoContext(ctx, "manual transaction recorded", "transaction_id", created.ID, "type", created.Type, "amount", created.Amount.String())
	return finance.ToResponse(created), nil
}

// Delete implements finance.FinanceService. Entries owned by a sale or a
// salary calculation are removed only through their owner.
func (s *FinanceServiceImpl) Delete(ctx context.Context, id string) error {
	t, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Linked() {
		return finance.ErrLinkedTransaction
	}
	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "transaction deleted", "transaction_id", id)
	return nil
}

// Export implements finance.FinanceService.
func (s *FinanceServiceImpl) Export(ctx context.Context, filter finance.TransactionFilter, format finance.ExportFormat, w io.Writer) (finance.ExportInfo, error) {
	if err := s.window(&filter); err != nil {
		return finance.ExportInfo{}, err
	}

	var (
		totals finance.Totals
		items  []finance.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.transactionRepo.Totals(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.transactionRepo.List(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return finance.ExportInfo{}, fmt.Errorf("failed to load ledger for export: %w", err)
	}

	name := exportName(filter)
	switch format {
	case finance.FormatCSV:
		if err := export.WriteCSV(w, items); err != nil {
			return finance.ExportInfo{}, err
		}
		return finance.ExportInfo{ContentType: export.ContentTypeCSV, FileName: name + ".csv"}, nil
	case finance.FormatXLSX, "":
		if err := export.WriteXLSX(w, items, totals); err != nil {
			return finance.ExportInfo{}, err
		}
		return finance.ExportInfo{ContentType: export.ContentTypeXLSX, FileName: name + ".xlsx"}, nil
	default:
		return finance.ExportInfo{}, finance.ErrInvalidExportFormat
	}
}

func exportName(filter finance.TransactionFilter) string {
	parts := []string{"ledger"}
	if filter.From != nil {
		parts = append(parts, dateutil.Format(*filter.From))
	}
	if filter.To != nil {
		parts = append(parts, dateutil.Format(*filter.To))
	}
	return strings.Join(parts, "_")
}
