package http

import (
	"net/http"

	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ClientHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type clientHandlerImpl struct {
	clientService client.ClientService
}

func NewClientHandler(clientService client.ClientService) ClientHandler {
	return &clientHandlerImpl{clientService: clientService}
}

func (h *clientHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req client.CreateClientRequest
	if !decodeJSON(w, r, &req, "CreateClient") {
		return
	}

	result, err := h.clientService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Client created", result)
}

func (h *clientHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.clientService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *clientHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := client.ClientFilter{Search: r.URL.Query().Get("search")}
	filter.Page, filter.Limit = pageParams(r)

	result, err := h.clientService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result.Clients, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *clientHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req client.UpdateClientRequest
	if !decodeJSON(w, r, &req, "UpdateClient") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.clientService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Client updated", result)
}

func (h *clientHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clientService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Client deleted", nil)
}
