// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	"github.com/chefai/chefai/internal/application/ai"
	"github.com/chefai/chefai/internal/application/chef"
	"github.com/chefai/chefai/internal/application/recipe"
	"github.com/chefai/chefai/internal/application/user"
	aiinfra "github.com/chefai/chefai/internal/infrastructure/ai"
	"github.com/chefai/chefai/internal/infrastructure/config"
	"github.com/chefai/chefai/internal/infrastructure/monitoring"
	"github.com/chefai/chefai/internal/infrastructure/persistence/memory"
	"github.com/chefai/chefai/internal/infrastructure/persistence/redis"
	"github.com/chefai/chefai/internal/infrastructure/persistence/sqlite"
	"github.com/chefai/chefai/internal/ports/inbound"
	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/healthcheck"
	"github.com/chefai/chefai/pkg/logger"
)

// Module provides all dependency injection modules. The caller supplies
// the *config.Config.
var Module = fx.Options(
	LoggerModule,
	MonitoringModule,
	StorageModule,
	AIModule,
	ServiceModule,
	HealthModule,
	LifecycleModule,
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides the metrics collector
var MonitoringModule = fx.Provide(
	func(cfg *config.Config) *monitoring.MetricsCollector {
		return monitoring.NewMetricsCollector(cfg.AI.Provider)
	},
)

// StorageModule provides the key/value store selected by storage.driver
var StorageModule = fx.Provide(NewKeyValueStore)

// NewKeyValueStore opens the configured store and closes it on shutdown.
func NewKeyValueStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Info("Using in-memory storage, nothing will persist")
		return memory.NewKVStore(), nil

	case config.DriverSQLite:
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := sqlite.SetupDatabase(cfg.Storage.Path, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		log.Info("Connected to SQLite database", zap.String("path", cfg.Storage.Path))

		store := sqlite.NewKVStore(db, log)
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
			return store.Close()
		}})
		return store, nil

	case config.DriverRedis:
		client, err := redis.NewClient(cfg, log)
		if err != nil {
			return nil, err
		}

		store := redis.NewKVStore(client, log)
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
			return store.Close()
		}})
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// AIModule provides the generative model adapter
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.GenerativeClient, error) {
		return aiinfra.NewGenerativeClient(context.Background(), cfg.AI, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	user.NewSessionService,
	recipe.NewCollectionService,
	ai.NewService,
	fx.Annotate(
		chef.NewService,
		fx.As(new(inbound.ChefService)),
	),
)

// HealthModule provides the dependency checks behind "chefai status"
var HealthModule = fx.Provide(NewHealthCheck)

// NewHealthCheck registers the storage and AI provider checks. An AI
// backend that cannot be reached only degrades the app.
func NewHealthCheck(store outbound.KeyValueStore, client outbound.GenerativeClient, cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
	hc := healthcheck.New(log)
	hc.Register("storage", healthcheck.NewStoreChecker(store))
	hc.Register("ai", healthcheck.NewCustomChecker(func(ctx context.Context) (healthcheck.Status, string) {
		checker, ok := client.(aiinfra.HealthChecker)
		if !ok {
			return healthcheck.StatusHealthy, fmt.Sprintf("%s (%s) configured", cfg.AI.Provider, cfg.AI.Model)
		}
		if err := checker.HealthCheck(ctx); err != nil {
			return healthcheck.StatusDegraded, err.Error()
		}
		return healthcheck.StatusHealthy, fmt.Sprintf("%s (%s) reachable", cfg.AI.Provider, cfg.AI.Model)
	}))
	return hc
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Debug("Starting Chef AI",
				zap.String("environment", cfg.App.Environment),
				zap.String("provider", cfg.AI.Provider),
				zap.String("model", cfg.AI.Model),
				zap.String("storage", cfg.Storage.Driver),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Debug("Shutting down Chef AI")
			// Flush logs
			_ = log.Sync()
			return nil
		},
	})
}
