package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/expense-tracker/db/migrations"
	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured SQL database.
func Open(cfg internal.StorageConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.StorageDriverSQLite:
		dialector = sqlite.Open(cfg.Source)
	case internal.StorageDriverPostgres:
		dialector = postgres.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == internal.StorageDriverSQLite {
		// an in-memory sqlite database exists per connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate applies every pending migration from db/migrations.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := prepareGoose(db, driver)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Rollback reverts the latest applied migration.
func Rollback(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := prepareGoose(db, driver)
	if err != nil {
		return err
	}
	if err := goose.DownContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func prepareGoose(db *gorm.DB, driver string) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	dialect := "postgres"
	if driver == internal.StorageDriverSQLite {
		dialect = "sqlite3"
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("schema_migrations")
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("goose dialect: %w", err)
	}
	return sqlDB, nil
}
