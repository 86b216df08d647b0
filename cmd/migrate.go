package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations to the configured database",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	if !cfg.Storage.UsesDatabase() {
		return fmt.Errorf("storage driver %q does not use migrations", cfg.Storage.Driver)
	}

	sqlDB, err := initDB(cfg.Storage.Driver, cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := migrate(cmd.Context(), sqlDB, cfg.Storage.Driver, migrateRollback); err != nil {
		return err
	}

	logger.LoggerWrapper().Info("migrations applied", "driver", cfg.Storage.Driver, "rollback", migrateRollback)
	return nil
}
