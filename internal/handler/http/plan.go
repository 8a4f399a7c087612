package http

import (
	"net/http"

	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// PlanHandler serves the membership catalog under /services.
type PlanHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	EndDate(w http.ResponseWriter, r *http.Request)
}

type planHandlerImpl struct {
	planService plan.PlanService
}

func NewPlanHandler(planService plan.PlanService) PlanHandler {
	return &planHandlerImpl{planService: planService}
}

func (h *planHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req plan.CreatePlanRequest
	if !decodeJSON(w, r, &req, "CreatePlan") {
		return
	}

	result, err := h.planService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Service created", result)
}

func (h *planHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.planService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *planHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := plan.PlanFilter{Search: r.URL.Query().Get("search")}
	filter.Page, filter.Limit = pageParams(r)

	result, err := h.planService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result.Services, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *planHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req plan.UpdatePlanRequest
	if !decodeJSON(w, r, &req, "UpdatePlan") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.planService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Service updated", result)
}

func (h *planHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.planService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Service deleted", nil)
}

// EndDate previews the membership end date for ?start_date=YYYY-MM-DD.
func (h *planHandlerImpl) EndDate(w http.ResponseWriter, r *http.Request) {
	result, err := h.planService.PreviewEndDate(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("start_date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
