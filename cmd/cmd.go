package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

var (
	configDir string
	ephemeral bool
	clearData bool

	// logOutput receives log lines; stdout is reserved for command output.
	logOutput io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "expense-tracker",
	Short: "Expense Tracker",
	Long:  `Record personal expenses and explore where the money goes.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.allowed_origins", "*")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)

	v.SetDefault("storage.driver", internal.StorageFile)
	v.SetDefault("storage.key", "expenses")
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.auto_migrate", true)

	v.SetDefault("database.source", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	v.SetDefault("tracker.currency_symbol", "₹")
	v.SetDefault("tracker.default_period", "all")
	v.SetDefault("tracker.default_sort", "date-desc")
	v.SetDefault("tracker.notification_ttl", 3*time.Second)
	v.SetDefault("tracker.confirmation_ttl", 5*time.Minute)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")
}

// loadConfig reads config.yml from path when present. Every key can be
// overridden from the environment as ENV_<SECTION>_<KEY>, and a .env file in
// the working directory is loaded first.
func loadConfig(path string) (*internal.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if ephemeral {
		v.Set("storage.driver", internal.StorageMemory)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	logger.InitWriter(logOutput, cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding config.yml")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep expenses in memory only")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing expenses before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(expenseCmd)
	rootCmd.AddCommand(analyticsCmd)
}
