package analytics

import (
	"net/http"

	"github.com/frahmantamala/expense-tracker/internal/query"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type ServiceAPI interface {
	Report(period query.Period) Report
	Window(period query.Period) []query.Record
	Format(summary Summary) FormattedSummary
}

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	DefaultPeriod query.Period
}

// NewHandler serves analytics. Requests without a period use defaultPeriod.
func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, defaultPeriod query.Period) *Handler {
	if defaultPeriod == "" {
		defaultPeriod = query.PeriodAll
	}
	return &Handler{
		BaseHandler:   baseHandler,
		Service:       service,
		DefaultPeriod: defaultPeriod,
	}
}

type SummaryResponse struct {
	Period    query.Period     `json:"period"`
	Summary   Summary          `json:"summary"`
	Formatted FormattedSummary `json:"formatted"`
}

func (h *Handler) period(w http.ResponseWriter, r *http.Request) (query.Period, bool) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return h.DefaultPeriod, true
	}
	period, err := query.ParsePeriod(raw)
	if err != nil {
		h.HandleServiceError(w, err)
		return "", false
	}
	return period, true
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Report(period))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	summary := Summarize(h.Service.Window(period))
	h.WriteJSON(w, http.StatusOK, SummaryResponse{
		Period:    period,
		Summary:   summary,
		Formatted: h.Service.Format(summary),
	})
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, ByCategory(h.Service.Window(period)))
}

func (h *Handler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, ByMonth(h.Service.Window(period)))
}

func (h *Handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, ByDay(h.Service.Window(period)))
}

func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, TopCategoryTrend(h.Service.Window(period), DefaultTrendSize))
}
