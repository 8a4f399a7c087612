package http

import (
	"net/http"

	"github.com/freedomdance/studio-backend/internal/domain/visit"
	"github.com/freedomdance/studio-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type VisitHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	UpdateDate(w http.ResponseWriter, r *http.Request)
}

type visitHandlerImpl struct {
	visitService visit.VisitService
}

func NewVisitHandler(visitService visit.VisitService) VisitHandler {
	return &visitHandlerImpl{visitService: visitService}
}

// Mark answers with the flat visit body the front desk client reads
// directly, not the standard envelope.
func (h *visitHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req visit.MarkVisitRequest
	if !decodeJSON(w, r, &req, "MarkVisit") {
		return
	}

	result, err := h.visitService.Mark(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *visitHandlerImpl) UpdateDate(w http.ResponseWriter, r *http.Request) {
	var req visit.UpdateVisitDateRequest
	if !decodeJSON(w, r, &req, "UpdateVisitDate") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.visitService.UpdateDate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
