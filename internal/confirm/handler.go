package confirm

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

type RegistryAPI interface {
	Get(id string) (Request, error)
	Confirm(ctx context.Context, id string) (Request, error)
	Cancel(id string) (Request, error)
}

type Handler struct {
	*transport.BaseHandler
	Registry RegistryAPI
}

func NewHandler(baseHandler *transport.BaseHandler, registry RegistryAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Registry:    registry,
	}
}

func (h *Handler) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	req, err := h.Registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := h.Registry.Confirm(r.Context(), id)
	if err != nil {
		logger.From(r.Context()).Error("Confirm: failed", "error", err, "confirmation_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	req, err := h.Registry.Cancel(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}
