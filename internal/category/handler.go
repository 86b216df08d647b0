package category

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

var ErrCategoryNotFound = internal.NewNotFoundError("Category not found", internal.ErrCodeInvalidCategory)

type ServiceAPI interface {
	GetAllCategories() []CategoryResponse
	GetCategoryByName(name string) (CategoryResponse, bool)
	IsValidCategory(name string) bool
	Names() []string
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: h.Service.GetAllCategories(),
	})
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	found, ok := h.Service.GetCategoryByName(chi.URLParam(r, "name"))
	if !ok {
		h.HandleServiceError(w, ErrCategoryNotFound)
		return
	}
	h.WriteJSON(w, http.StatusOK, found)
}
