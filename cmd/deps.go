package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/bootstrap"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/storage"
	"github.com/frahmantamala/expense-tracker/internal/storage/database"
	"github.com/frahmantamala/expense-tracker/internal/storage/memory"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config     *internal.Config
	Logger     *slog.Logger
	Clock      internal.Clock
	DB         *gorm.DB
	Store      *storage.Store
	EventBus   *events.EventBus
	Expenses   *expense.Service
	Categories *category.Service
	Analytics  *analytics.Service
	Bootstrap  *bootstrap.Bootstrapper
}

// initializeDependencies wires the services over the configured backend and
// makes sure the store holds its default data.
func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging)
	log := logger.L()

	deps := &Dependencies{
		Config: config,
		Logger: log,
		Clock:  internal.SystemClock,
	}

	kv, err := deps.openKeyValue(ctx)
	if err != nil {
		return nil, err
	}

	deps.Store = storage.NewStore(kv, log.With("component", "storage"))
	deps.EventBus = events.NewEventBus(log.With("component", "events"))
	deps.EventBus.SubscribeAll(auditHandler)

	deps.Expenses = expense.NewService(deps.Store, deps.Clock, deps.EventBus, log.With("component", "expense"))
	deps.Categories = category.NewService(deps.Store, deps.Clock, deps.EventBus, log.With("component", "category"))
	deps.Analytics = analytics.NewService(deps.Store, deps.Clock, log.With("component", "analytics"))
	deps.Bootstrap = bootstrap.New(deps.Store, deps.Clock, log.With("component", "bootstrap"))

	if err := deps.Bootstrap.Initialize(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return deps, nil
}

func (d *Dependencies) openKeyValue(ctx context.Context) (storage.KeyValue, error) {
	cfg := d.Config.Storage
	if cfg.Driver == internal.StorageDriverMemory {
		d.Logger.Warn("using in-memory storage; data is lost on exit")
		return memory.NewStore(cfg.QuotaBytes), nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	d.DB = db

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, cfg.Driver); err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return database.NewStore(db, cfg.QuotaBytes), nil
}

func (d *Dependencies) Close() {
	if d.DB == nil {
		return
	}
	if err := database.Close(d.DB); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func auditHandler(ctx context.Context, event events.Event) error {
	logger.From(ctx).Info("audit",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"payload", event.Payload())
	return nil
}

// withDependencies runs fn with wired dependencies and closes them after.
func withDependencies(cmd interface{ Context() context.Context }, fn func(ctx context.Context, deps *Dependencies) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	deps, err := initializeDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()
	return fn(ctx, deps)
}
