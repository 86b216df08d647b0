package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/confirm"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/notification"
	"github.com/frahmantamala/expense-tracker/internal/query"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

func startHTTPServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	router, err := setupRoutes(deps)
	if err != nil {
		return err
	}

	cfg := deps.Config.Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		deps.Logger.Info("Starting HTTP server", "address", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) (*chi.Mux, error) {
	base := transport.NewBaseHandler(deps.Logger)

	expenseHandler := expense.NewHandler(base, deps.Expenses, deps.Registry, deps.Formatter)
	if p := deps.Config.Tracker.DefaultPeriod; p != "" {
		expenseHandler.DefaultPeriod = query.Period(p)
	}
	if s := deps.Config.Tracker.DefaultSort; s != "" {
		expenseHandler.DefaultSort = query.SortKey(s)
	}

	defaultPeriod := query.PeriodAll
	if p := deps.Config.Tracker.DefaultPeriod; p != "" {
		defaultPeriod = query.Period(p)
	}

	handlers := rest.Handlers{
		Expense:      expenseHandler,
		Analytics:    analytics.NewHandler(base, deps.Analytics, defaultPeriod),
		Category:     category.NewHandler(base, deps.Categories),
		Confirm:      confirm.NewHandler(base, deps.Registry),
		Notification: notification.NewHandler(base, deps.Toaster),
	}
	checks := map[string]rest.Checker{
		deps.Config.Storage.Driver: deps.Storage.Ping,
	}

	router := chi.NewRouter()
	if err := rest.RegisterAllRoutes(router, handlers, checks, deps.Config.Server.Origins(), deps.Logger); err != nil {
		return nil, err
	}
	return router, nil
}
