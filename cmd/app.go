package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/confirm"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/notification"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/frahmantamala/expense-tracker/pkg/money"
)

// Dependencies is the wired application shared by every command.
type Dependencies struct {
	Config     *internal.Config
	Logger     *slog.Logger
	Storage    *Storage
	Bus        *events.EventBus
	Toaster    *notification.Toaster
	Registry   *confirm.Registry
	Categories *category.Service
	Store      *expense.Store
	Expenses   *expense.Service
	Analytics  *analytics.Service
	Formatter  money.Formatter
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	storage, err := openStorage(ctx, cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	bus := events.NewEventBus(lg)
	toaster := notification.NewToaster(cfg.Tracker.NotificationTTL, lg)
	toaster.Subscribe(bus)

	categories := category.NewService(cfg.Tracker.Categories, lg)
	formatter := money.NewFormatter(cfg.Tracker.CurrencySymbol)

	store := expense.NewStore(storage.Slots, lg, expense.WithSlotKey(cfg.Storage.Key))
	loaded := store.Load(ctx)
	lg.Info("expenses loaded", "count", len(loaded), "driver", cfg.Storage.Driver, "key", store.Key())

	return &Dependencies{
		Config:     cfg,
		Logger:     lg,
		Storage:    storage,
		Bus:        bus,
		Toaster:    toaster,
		Registry:   confirm.NewRegistry(cfg.Tracker.ConfirmationTTL, lg),
		Categories: categories,
		Store:      store,
		Expenses:   expense.NewService(store, categories, bus, lg),
		Analytics:  analytics.NewService(store, formatter, lg),
		Formatter:  formatter,
	}, nil
}

func (d *Dependencies) Close() {
	if err := d.Storage.Close(); err != nil {
		d.Logger.Error("storage close error", "error", err)
	}
}
