package http

import (
	"net/http"

	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/domain/visit"
	"github.com/freedomdance/studio-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SaleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Visits(w http.ResponseWriter, r *http.Request)
}

type saleHandlerImpl struct {
	saleService  sale.SaleService
	visitService visit.VisitService
}

func NewSaleHandler(saleService sale.SaleService, visitService visit.VisitService) SaleHandler {
	return &saleHandlerImpl{
		saleService:  saleService,
		visitService: visitService,
	}
}

func (h *saleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req sale.CreateSaleRequest
	if !decodeJSON(w, r, &req, "CreateSale") {
		return
	}

	result, err := h.saleService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Membership sold", result)
}

func (h *saleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.saleService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *saleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := sale.SaleFilter{
		Search:   q.Get("search"),
		ClientID: q.Get("client_id"),
	}
	filter.Page, filter.Limit = pageParams(r)

	result, err := h.saleService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result.Sales, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// Update serves both PUT and POST on /sales/{id}; older clients post edits.
func (h *saleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req sale.UpdateSaleRequest
	if !decodeJSON(w, r, &req, "UpdateSale") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.saleService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Membership updated", result)
}

func (h *saleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.saleService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Membership deleted", nil)
}

// Visits lists the visit history of one sale, newest first.
func (h *saleHandlerImpl) Visits(w http.ResponseWriter, r *http.Request) {
	result, err := h.visitService.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
