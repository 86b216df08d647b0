package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/spf13/afero"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/expense-tracker/db"
	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/slot"
	"github.com/frahmantamala/expense-tracker/internal/slot/file"
	slotPostgres "github.com/frahmantamala/expense-tracker/internal/slot/postgres"
)

// Storage is the opened slot backend plus whatever needs closing.
type Storage struct {
	Slots slot.Store
	DB    *sqlx.DB
	ping  func(ctx context.Context) error
}

// Ping reports whether the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// sqlDriver maps a storage driver to the database/sql driver and goose dialect.
func sqlDriver(driver string) (name, dialect string, err error) {
	switch driver {
	case internal.StorageSQLite:
		return "sqlite3", "sqlite3", nil
	case internal.StoragePostgres:
		return "pgx", "postgres", nil
	}
	return "", "", fmt.Errorf("storage driver %q has no database", driver)
}

func openStorage(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case internal.StorageMemory:
		return &Storage{Slots: slot.NewMemoryStore()}, nil

	case internal.StorageFile:
		store, err := file.NewStore(afero.NewOsFs(), cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		return &Storage{Slots: store, ping: store.Ping}, nil
	}

	sqlDB, err := initDB(cfg.Storage.Driver, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.AutoMigrate {
		if err := migrate(ctx, sqlDB, cfg.Storage.Driver, false); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		logger.Info("storage migrated", "driver", cfg.Storage.Driver)
	}

	gormDB, err := openGorm(cfg.Storage.Driver, sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Storage{
		Slots: slotPostgres.NewSlotRepository(gormDB),
		DB:    sqlDB,
		ping:  sqlDB.PingContext,
	}, nil
}

// initDB opens and verifies the database connection pool.
func initDB(driver string, cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	name, _, err := sqlDriver(driver)
	if err != nil {
		return nil, err
	}

	dbConn, err := sqlx.Connect(name, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}

func openGorm(driver string, sqlDB *sqlx.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case internal.StorageSQLite:
		dialector = sqlite.Dialector{DriverName: "sqlite3", Conn: sqlDB.DB}
	case internal.StoragePostgres:
		dialector = postgres.New(postgres.Config{Conn: sqlDB.DB})
	default:
		return nil, fmt.Errorf("storage driver %q has no database", driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gormDB, nil
}

// migrate applies (or rolls back one step of) the embedded migrations.
func migrate(ctx context.Context, sqlDB *sqlx.DB, driver string, rollback bool) error {
	_, dialect, err := sqlDriver(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if rollback {
		if err := goose.DownContext(ctx, sqlDB.DB, db.MigrationsDir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	}

	if err := goose.UpContext(ctx, sqlDB.DB, db.MigrationsDir); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
