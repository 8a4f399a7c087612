package http

import (
	"net/http"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/handler/http/response"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type WorkHoursHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type workHoursHandlerImpl struct {
	workHoursService workhours.WorkHoursService
}

func NewWorkHoursHandler(workHoursService workhours.WorkHoursService) WorkHoursHandler {
	return &workHoursHandlerImpl{workHoursService: workHoursService}
}

func (h *workHoursHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req workhours.CreateWorkHoursRequest
	if !decodeJSON(w, r, &req, "CreateWorkHours") {
		return
	}

	result, err := h.workHoursService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Work hours recorded", result)
}

func (h *workHoursHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req workhours.UpdateWorkHoursRequest
	if !decodeJSON(w, r, &req, "UpdateWorkHours") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.workHoursService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work hours updated", result)
}

func (h *workHoursHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workHoursService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work hours deleted", nil)
}

func (h *workHoursHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := workhours.WorkHoursFilter{EmployeeID: r.URL.Query().Get("employee_id")}
	filter.Page, filter.Limit = pageParams(r)

	var errs validator.ValidationErrors
	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		raw := queryString(r, p.key)
		if raw == nil {
			continue
		}
		d, err := dateutil.Parse(*raw)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: p.key, Message: p.key + " must be in YYYY-MM-DD format"})
			continue
		}
		*p.dst = &d
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.workHoursService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result.WorkHours, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// Summary totals hours and visits for ?employee_id&start_date&end_date.
func (h *workHoursHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := workhours.SummaryRequest{
		EmployeeID: q.Get("employee_id"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}

	result, err := h.workHoursService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
