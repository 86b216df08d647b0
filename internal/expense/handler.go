package expense

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-tracker/internal/confirm"
	"github.com/frahmantamala/expense-tracker/internal/query"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/frahmantamala/expense-tracker/pkg/money"
)

const (
	DeleteTitle   = "Confirm Delete"
	DeleteMessage = "Are you sure you want to delete this expense?"
	ResetTitle    = "Reset All Data"
	ResetMessage  = "Are you sure you want to delete all expenses? This action cannot be undone."
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, dto CreateExpenseDTO) (Expense, error)
	UpdateExpense(ctx context.Context, id string, dto UpdateExpenseDTO) (Expense, bool, error)
	DeleteExpense(ctx context.Context, id string) (bool, error)
	ResetExpenses(ctx context.Context) (int, error)
	GetExpense(id string) (Expense, error)
	ListExpenses(c query.Criteria) ListResult
}

// Confirmer defers destructive actions. *confirm.Registry satisfies it.
type Confirmer interface {
	Request(title, message string, action confirm.Action) confirm.Request
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Confirmer Confirmer
	Formatter money.Formatter

	DefaultPeriod query.Period
	DefaultSort   query.SortKey
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, confirmer Confirmer, formatter money.Formatter) *Handler {
	return &Handler{
		BaseHandler:   baseHandler,
		Service:       service,
		Confirmer:     confirmer,
		Formatter:     formatter,
		DefaultPeriod: query.PeriodAll,
		DefaultSort:   query.SortDateDesc,
	}
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.criteria(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result := h.Service.ListExpenses(criteria)
	h.WriteJSON(w, http.StatusOK, ListResponse{
		Expenses:       result.Expenses,
		Count:          result.Count,
		Total:          result.Total,
		TotalFormatted: h.Formatter.Format(result.Total),
	})
}

func (h *Handler) criteria(r *http.Request) (query.Criteria, error) {
	q := r.URL.Query()
	c := query.Criteria{
		Period:   h.DefaultPeriod,
		Category: q.Get("category"),
		Sort:     h.DefaultSort,
	}

	if raw := q.Get("period"); raw != "" {
		period, err := query.ParsePeriod(raw)
		if err != nil {
			return query.Criteria{}, err
		}
		c.Period = period
	}
	if raw := q.Get("sort"); raw != "" {
		key, err := query.ParseSortKey(raw)
		if err != nil {
			return query.Criteria{}, err
		}
		c.Sort = key
	}
	return c, nil
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		logger.From(r.Context()).Warn("CreateExpense: invalid request body", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	created, err := h.Service.CreateExpense(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetExpense(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, found)
}

// UpdateExpense answers 204 when the id no longer exists; the update is a
// no-op rather than an error.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		logger.From(r.Context()).Warn("UpdateExpense: invalid request body", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	updated, found, err := h.Service.UpdateExpense(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// DeleteExpense only asks for confirmation. The record is removed when the
// returned confirmation is confirmed.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req := h.Confirmer.Request(DeleteTitle, DeleteMessage, func(ctx context.Context) error {
		_, err := h.Service.DeleteExpense(ctx, id)
		return err
	})

	h.WriteJSON(w, http.StatusAccepted, req)
}

func (h *Handler) ResetExpenses(w http.ResponseWriter, r *http.Request) {
	req := h.Confirmer.Request(ResetTitle, ResetMessage, func(ctx context.Context) error {
		_, err := h.Service.ResetExpenses(ctx)
		return err
	})

	h.WriteJSON(w, http.StatusAccepted, req)
}
