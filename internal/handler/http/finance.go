package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type FinanceHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	CreateTransaction(w http.ResponseWriter, r *http.Request)
	DeleteTransaction(w http.ResponseWriter, r *http.Request)
}

type financeHandlerImpl struct {
	financeService finance.FinanceService
}

func NewFinanceHandler(financeService finance.FinanceService) FinanceHandler {
	return &financeHandlerImpl{financeService: financeService}
}

func transactionFilter(r *http.Request) finance.TransactionFilter {
	return finance.TransactionFilter{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}
}

func (h *financeHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.financeService.Summary(r.Context(), transactionFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Export renders into a buffer first so a failure can still be answered
// with a JSON error instead of a truncated file.
func (h *financeHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format, err := finance.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	info, err := h.financeService.Export(r.Context(), transactionFilter(r), format, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.WarnContext(r.Context(), "finance export write failed", "error", err)
	}
}

func (h *financeHandlerImpl) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req finance.CreateTransactionRequest
	if !decodeJSON(w, r, &req, "CreateTransaction") {
		return
	}

	result, err := h.financeService.CreateManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Transaction created", result)
}

func (h *financeHandlerImpl) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.financeService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Transaction deleted", nil)
}
