package expense_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/confirm"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/slot"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/pkg/money"
)

var _ = Describe("Handler", func() {
	var (
		store    *expense.Store
		registry *confirm.Registry
		router   *chi.Mux
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = expense.NewStore(slot.NewMemoryStore(), logger, expense.WithIDGenerator(sequentialIDs()))
		service := expense.NewService(store, staticCatalog(catalog), nil, logger)
		registry = confirm.NewRegistry(time.Minute, logger)
		handler := expense.NewHandler(transport.NewBaseHandler(logger), service, registry, money.NewFormatter("₹"))

		router = chi.NewRouter()
		router.Route("/expenses", func(r chi.Router) {
			r.Get("/", handler.ListExpenses)
			r.Post("/", handler.CreateExpense)
			r.Delete("/", handler.ResetExpenses)
			r.Get("/{id}", handler.GetExpense)
			r.Put("/{id}", handler.UpdateExpense)
			r.Delete("/{id}", handler.DeleteExpense)
		})
	})

	It("creates an expense", func() {
		// When
		rec := do(http.MethodPost, "/expenses/", `{"amount":12.5,"description":"Lunch","date":"2024-03-05","category":"Food"}`)

		// Then
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var created expense.Expense
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		Expect(created.ID).To(Equal("id-1"))
		Expect(created.Date.String()).To(Equal("2024-03-05"))
	})

	It("returns all field errors for an invalid body", func() {
		rec := do(http.MethodPost, "/expenses/", `{"amount":"-1","description":"","date":"","category":""}`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring("Please enter a valid amount"))
		Expect(body).To(ContainSubstring("Please enter a description"))
		Expect(body).To(ContainSubstring("Please select a date"))
		Expect(body).To(ContainSubstring("Please select a category"))
	})

	It("rejects malformed JSON", func() {
		rec := do(http.MethodPost, "/expenses/", `{"amount":`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("lists with a formatted total", func() {
		do(http.MethodPost, "/expenses/", `{"amount":"10","description":"Groceries","date":"2024-03-02","category":"Food"}`)
		do(http.MethodPost, "/expenses/", `{"amount":"2.5","description":"Bus ticket","date":"2024-03-03","category":"Transport"}`)

		rec := do(http.MethodGet, "/expenses/?category=Transport&sort=amount-asc", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		var resp expense.ListResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Expenses).To(HaveLen(1))
		Expect(resp.Count).To(Equal(2))
		Expect(resp.TotalFormatted).To(Equal("₹12.50"))
	})

	It("rejects an unknown sort key", func() {
		rec := do(http.MethodGet, "/expenses/?sort=sideways", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 204 when updating a missing expense", func() {
		rec := do(http.MethodPut, "/expenses/missing", `{"amount":"10","description":"Groceries","date":"2024-03-02","category":"Food"}`)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})

	It("returns 404 for a missing expense", func() {
		rec := do(http.MethodGet, "/expenses/missing", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("deletes only after confirmation", func() {
		// Given
		do(http.MethodPost, "/expenses/", `{"amount":"10","description":"Groceries","date":"2024-03-02","category":"Food"}`)

		// When
		rec := do(http.MethodDelete, "/expenses/id-1", "")

		// Then
		Expect(rec.Code).To(Equal(http.StatusAccepted))
		var pending confirm.Request
		Expect(json.Unmarshal(rec.Body.Bytes(), &pending)).To(Succeed())
		Expect(pending.Title).To(Equal("Confirm Delete"))
		Expect(pending.Message).To(Equal("Are you sure you want to delete this expense?"))
		Expect(store.Count()).To(Equal(1))

		_, err := registry.Confirm(context.Background(), pending.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Count()).To(Equal(0))
	})

	It("keeps everything when a reset is cancelled", func() {
		do(http.MethodPost, "/expenses/", `{"amount":"10","description":"Groceries","date":"2024-03-02","category":"Food"}`)

		rec := do(http.MethodDelete, "/expenses/", "")
		Expect(rec.Code).To(Equal(http.StatusAccepted))
		var pending confirm.Request
		Expect(json.Unmarshal(rec.Body.Bytes(), &pending)).To(Succeed())
		Expect(pending.Title).To(Equal("Reset All Data"))

		_, err := registry.Cancel(pending.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Count()).To(Equal(1))
	})
})
