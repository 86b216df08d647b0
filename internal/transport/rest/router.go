package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-tracker/api"
	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/confirm"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/notification"
	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
)

// Handlers groups the route handlers. A nil handler leaves its routes out.
type Handlers struct {
	Expense      *expense.Handler
	Analytics    *analytics.Handler
	Category     *category.Handler
	Confirm      *confirm.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, handlers Handlers, checks map[string]Checker, origins []string, logger *slog.Logger) error {
	healthHandler := NewHealthHandler(checks)

	validate, err := middleware.OpenAPIValidator(api.OpenAPI, logger)
	if err != nil {
		return fmt.Errorf("openapi validator: %w", err)
	}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(origins))

	// Serve OpenAPI document at root (outside API prefix)
	router.Get(swagger.DocumentURL, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(validate)

		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h := handlers.Category; h != nil {
			r.Get("/categories", h.GetCategories)
			r.Get("/categories/{name}", h.GetCategory)
		}

		if h := handlers.Expense; h != nil {
			r.Route("/expenses", func(er chi.Router) {
				er.Get("/", h.ListExpenses)      // GET /expenses
				er.Post("/", h.CreateExpense)    // POST /expenses
				er.Delete("/", h.ResetExpenses)  // DELETE /expenses (confirmation)
				er.Get("/{id}", h.GetExpense)    // GET /expenses/:id
				er.Put("/{id}", h.UpdateExpense) // PUT /expenses/:id
				er.Delete("/{id}", h.DeleteExpense)
			})
		}

		if h := handlers.Analytics; h != nil {
			r.Route("/analytics", func(ar chi.Router) {
				ar.Get("/", h.GetReport)
				ar.Get("/summary", h.GetSummary)
				ar.Get("/categories", h.GetCategories)
				ar.Get("/monthly", h.GetMonthly)
				ar.Get("/daily", h.GetDaily)
				ar.Get("/trend", h.GetTrend)
			})
		}

		if h := handlers.Confirm; h != nil {
			r.Route("/confirmations/{id}", func(cr chi.Router) {
				cr.Get("/", h.GetConfirmation)
				cr.Post("/confirm", h.Confirm)
				cr.Post("/cancel", h.Cancel)
			})
		}

		if handlers.Notification != nil {
			r.Get("/notifications", handlers.Notification.GetNotifications)
		}
	})

	return nil
}
