package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/confirm"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/notification"
	"github.com/frahmantamala/expense-tracker/internal/slot"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/frahmantamala/expense-tracker/pkg/money"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("Router", func() {
	var (
		router  *chi.Mux
		store   *expense.Store
		storage error
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		lg := logger.Discard()
		storage = nil

		bus := events.NewEventBus(lg)
		toaster := notification.NewToaster(time.Minute, lg)
		toaster.Subscribe(bus)

		categories := category.NewService(nil, lg)
		store = expense.NewStore(slot.NewMemoryStore(), lg)
		registry := confirm.NewRegistry(time.Minute, lg)
		base := transport.NewBaseHandler(lg)

		handlers := rest.Handlers{
			Expense:      expense.NewHandler(base, expense.NewService(store, categories, bus, lg), registry, money.NewFormatter("₹")),
			Analytics:    analytics.NewHandler(base, analytics.NewService(store, money.NewFormatter("₹"), lg), "all"),
			Category:     category.NewHandler(base, categories),
			Confirm:      confirm.NewHandler(base, registry),
			Notification: notification.NewHandler(base, toaster),
		}
		checks := map[string]rest.Checker{
			"storage": func(context.Context) error { return storage },
		}

		router = chi.NewRouter()
		Expect(rest.RegisterAllRoutes(router, handlers, checks, []string{"*"}, lg)).To(Succeed())
	})

	It("answers ping and health", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/health", "").Code).To(Equal(http.StatusOK))

		storage = errors.New("disk gone")
		w := do(http.MethodGet, "/api/v1/health", "")

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		var resp rest.HealthResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Components["storage"].Message).To(Equal("disk gone"))
	})

	It("serves the openapi document", func() {
		w := do(http.MethodGet, "/openapi.yml", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	It("lists the category catalog", func() {
		w := do(http.MethodGet, "/api/v1/categories", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"Food"`))

		Expect(do(http.MethodGet, "/api/v1/categories/Health", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/categories/Pets", "").Code).To(Equal(http.StatusNotFound))
	})

	It("runs a create, reset and confirm round trip", func() {
		// Given
		w := do(http.MethodPost, "/api/v1/expenses", `{"amount":"42","description":"Dinner","date":"2024-03-05","category":"Food"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(store.Count()).To(Equal(1))

		// When
		w = do(http.MethodDelete, "/api/v1/expenses", "")
		Expect(w.Code).To(Equal(http.StatusAccepted))
		var pending confirm.Request
		Expect(json.Unmarshal(w.Body.Bytes(), &pending)).To(Succeed())

		w = do(http.MethodPost, "/api/v1/confirmations/"+pending.ID+"/confirm", "")

		// Then
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(store.Count()).To(Equal(0))

		w = do(http.MethodPost, "/api/v1/confirmations/"+pending.ID+"/confirm", "")
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = do(http.MethodGet, "/api/v1/notifications", "")
		Expect(w.Body.String()).To(ContainSubstring("Expense added successfully!"))
		Expect(w.Body.String()).To(ContainSubstring("All expenses have been reset!"))
	})

	It("reports analytics for stored expenses", func() {
		do(http.MethodPost, "/api/v1/expenses", `{"amount":"40","description":"Groceries","date":"2024-03-05","category":"Food"}`)

		w := do(http.MethodGet, "/api/v1/analytics?period=all", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var report analytics.Report
		Expect(json.Unmarshal(w.Body.Bytes(), &report)).To(Succeed())
		Expect(report.HasData).To(BeTrue())
		Expect(report.Summary.Total).To(Equal(40.0))
	})

	It("rejects an unknown period", func() {
		w := do(http.MethodGet, "/api/v1/expenses?period=decade", "")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("VALIDATION_FAILED"))
	})

	It("accepts period and sort in any letter case", func() {
		// Given
		do(http.MethodPost, "/api/v1/expenses", `{"amount":"5","description":"Tea","date":"2024-03-05","category":"Food"}`)
		do(http.MethodPost, "/api/v1/expenses", `{"amount":"9","description":"Cab","date":"2024-03-06","category":"Transport"}`)

		// When
		w := do(http.MethodGet, "/api/v1/expenses?period=All&sort=AMOUNT-DESC", "")

		// Then
		Expect(w.Code).To(Equal(http.StatusOK))
		body := w.Body.String()
		Expect(strings.Index(body, "Cab")).To(BeNumerically("<", strings.Index(body, "Tea")))

		Expect(do(http.MethodGet, "/api/v1/analytics?period=Year", "").Code).To(Equal(http.StatusOK))
	})

	It("returns 404 for an unknown confirmation", func() {
		Expect(do(http.MethodGet, "/api/v1/confirmations/nope", "").Code).To(Equal(http.StatusNotFound))
	})
})
