package analytics_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/query"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/pkg/money"
)

type staticSource []query.Record

func (s staticSource) Records() []query.Record { return s }

var _ = Describe("Service", func() {
	var (
		logger *slog.Logger
		now    time.Time
		source staticSource
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		now = time.Date(2024, 3, 20, 18, 0, 0, 0, time.UTC)
		source = staticSource(records(
			rec{amount: 40, day: "2024-03-02", category: "Food"},
			rec{amount: 60, day: "2024-03-02", category: "Transport"},
			rec{amount: 500, day: "2023-11-11", category: "Shopping"},
		))
	})

	newService := func(src analytics.Source) *analytics.Service {
		return analytics.NewService(src, money.NewFormatter("₹"), logger).
			WithClock(func() time.Time { return now })
	}

	It("reports only the selected window", func() {
		// When
		report := newService(source).Report(query.PeriodMonth)

		// Then
		Expect(report.HasData).To(BeTrue())
		Expect(report.Summary.Count).To(Equal(2))
		Expect(report.Summary.Total).To(Equal(100.0))
		Expect(report.Summary.AveragePerDay).To(Equal(100.0))
		Expect(report.Summary.HighestCategory).To(Equal("Transport"))
		Expect(report.Formatted.Total).To(Equal("₹100.00"))
		Expect(report.Monthly.Labels).To(Equal([]string{"Mar 2024"}))
		Expect(report.Daily.Labels).To(Equal([]string{"2/3"}))
		Expect(report.Trend.Series).To(HaveLen(2))
	})

	It("has data even when the window is empty", func() {
		now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		report := newService(source).Report(query.PeriodMonth)

		Expect(report.HasData).To(BeTrue())
		Expect(report.Summary.Count).To(Equal(0))
		Expect(report.Summary.HighestCategory).To(Equal("N/A"))
	})

	It("has no data for an empty store", func() {
		report := newService(staticSource{}).Report(query.PeriodAll)
		Expect(report.HasData).To(BeFalse())
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			handler := analytics.NewHandler(transport.NewBaseHandler(logger), newService(source), query.PeriodYear)
			router = chi.NewRouter()
			router.Get("/analytics", handler.GetReport)
			router.Get("/analytics/summary", handler.GetSummary)
			router.Get("/analytics/categories", handler.GetCategories)
		})

		It("uses the default period when none is given", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/summary", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp analytics.SummaryResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Period).To(Equal(query.PeriodYear))
			Expect(resp.Summary.Total).To(Equal(100.0))
		})

		It("honours an explicit period", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/categories?period=all", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			var b analytics.Breakdown
			Expect(json.Unmarshal(w.Body.Bytes(), &b)).To(Succeed())
			Expect(b.Labels).To(Equal([]string{"Food", "Transport", "Shopping"}))
		})

		It("rejects an unknown period", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics?period=decade", nil))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
