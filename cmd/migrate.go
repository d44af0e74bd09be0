package cmd

import (
	"fmt"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cli"
	"github.com/frahmantamala/expense-tracker/internal/storage/database"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Observability.Logging)

	if cfg.Storage.Driver == internal.StorageDriverMemory {
		fmt.Println(cli.FormatWarning("memory storage has no schema to migrate"))
		return nil
	}

	db, err := database.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if migrateRollback {
		if err := database.Rollback(ctx, db, cfg.Storage.Driver); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("rolled back latest migration"))
		return nil
	}

	if err := database.Migrate(ctx, db, cfg.Storage.Driver); err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess("migrations applied"))
	return nil
}
