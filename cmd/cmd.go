package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	clearData  bool
)

var rootCmd = &cobra.Command{
	Use:           "expense-tracker",
	Short:         "Expense Tracker",
	Long:          `Record personal expenses, organise them into categories and report on spending.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(describeError(err)))
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	if os.Getenv("APP_ENV") == "production" {
		cfg := internal.LoadConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()
	setDefaults(v, internal.DefaultConfig())
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so env overrides work without a config file.
func setDefaults(v *viper.Viper, def *internal.Config) {
	v.SetDefault("app.env", def.App.Env)
	v.SetDefault("storage.driver", def.Storage.Driver)
	v.SetDefault("storage.source", def.Storage.Source)
	v.SetDefault("storage.quota_bytes", def.Storage.QuotaBytes)
	v.SetDefault("storage.auto_migrate", def.Storage.AutoMigrate)
	v.SetDefault("storage.max_open_conns", def.Storage.MaxOpenConns)
	v.SetDefault("storage.max_idle_conns", def.Storage.MaxIdleConns)
	v.SetDefault("observability.logging.level", def.Observability.Logging.Level)
	v.SetDefault("observability.logging.format", def.Observability.Logging.Format)
}

func describeError(err error) string {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr.GetDetailedMessage()
	}
	return err.Error()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(expenseCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}
